package service

import (
	"campusnest/internal/domain"
	"campusnest/internal/dto"
	"campusnest/internal/rating"
)

const anonymousAuthor = "Anonymous"

func schoolView(sc *domain.School) dto.SchoolView {
	return dto.SchoolView{
		ID:             sc.ID.String(),
		Name:           sc.Name,
		Domain:         sc.Domain,
		Slug:           sc.Slug,
		ColorPrimary:   sc.ColorPrimary,
		ColorSecondary: sc.ColorSecondary,
	}
}

func userView(u *domain.User, sc *domain.School) dto.UserView {
	return dto.UserView{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		School:     schoolView(sc),
	}
}

func housingView(h domain.Housing, sc domain.School) dto.HousingView {
	return dto.HousingView{
		ID:         h.ID.String(),
		Name:       h.Name,
		Address:    h.Address,
		City:       h.City,
		State:      h.State,
		ZipCode:    h.ZipCode,
		IsOnCampus: h.IsOnCampus,
		School:     dto.SchoolRef{Name: sc.Name, Slug: sc.Slug},
		CreatedAt:  h.CreatedAt,
	}
}

func housingSummary(h domain.Housing, sc domain.School, st rating.Stats) dto.HousingSummary {
	return dto.HousingSummary{
		HousingView:   housingView(h, sc),
		AverageRating: st.RatingOrZero(),
		ReviewCount:   st.ReviewCount,
		AverageRent:   st.AverageRent,
	}
}

// reviewView hides the author's name, never their school, on anonymous
// reviews.
func reviewView(r domain.Review, author domain.User, authorSchool domain.School, h domain.Housing) dto.ReviewView {
	name := author.Name
	if r.IsAnonymous {
		name = anonymousAuthor
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return dto.ReviewView{
		ID:                r.ID.String(),
		HousingID:         r.HousingID.String(),
		IsAnonymous:       r.IsAnonymous,
		OverallRating:     r.OverallRating,
		LocationRating:    r.LocationRating,
		ValueRating:       r.ValueRating,
		MaintenanceRating: r.MaintenanceRating,
		ManagementRating:  r.ManagementRating,
		AmenitiesRating:   r.AmenitiesRating,
		Title:             r.Title,
		Description:       r.Description,
		MonthlyRent:       r.MonthlyRent,
		UtilitiesIncluded: r.UtilitiesIncluded,
		IsFurnished:       r.IsFurnished,
		PetsAllowed:       r.PetsAllowed,
		Images:            images,
		CreatedAt:         r.CreatedAt,
		User: dto.ReviewAuthor{
			Name:   name,
			School: dto.SchoolRef{Name: authorSchool.Name, Slug: authorSchool.Slug},
		},
		Housing: dto.ReviewHousing{
			Name:    h.Name,
			Address: h.Address,
			City:    h.City,
			State:   h.State,
		},
	}
}
