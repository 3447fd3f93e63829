package service

import (
	"context"
	"errors"
	"time"

	"campusnest/internal/domain"
	"campusnest/internal/dto"
	"campusnest/internal/rating"
	"campusnest/internal/store"

	"github.com/google/uuid"
)

// CreateHousing adds a property to the user's school. An exact name and
// address match, or a case-insensitive name clash, is a conflict.
func (s *Service) CreateHousing(ctx context.Context, userID uuid.UUID, req dto.HousingDescriptor) (dto.HousingView, error) {
	if userID == uuid.Nil {
		return dto.HousingView{}, domain.ErrUnauthorized
	}
	if err := dto.Validate(req); err != nil {
		return dto.HousingView{}, err
	}

	var out dto.HousingView
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		user, school, err := s.currentUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, err := tx.Housing().FindExact(ctx, user.SchoolID, req.Name, req.Address); err == nil {
			return domain.ErrHousingExists
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}

		h := newHousing(user.SchoolID, req, s.now())
		created, err := tx.Housing().InsertIfAbsent(ctx, h)
		if err != nil {
			return err
		}
		if !created {
			return domain.ErrHousingExists
		}
		out = housingView(*h, *school)
		return nil
	})
	if err != nil {
		return dto.HousingView{}, storeErr("create housing", err)
	}
	return out, nil
}

// ListHousing returns housing newest first with list-style stats, where a
// housing without reviews has an average rating of 0.
func (s *Service) ListHousing(ctx context.Context, f dto.HousingFilter) ([]dto.HousingSummary, error) {
	rows, err := s.store.Housing().List(ctx, store.HousingQuery{
		SchoolID:   f.SchoolID,
		City:       f.City,
		IsOnCampus: f.IsOnCampus,
	})
	if err != nil {
		return nil, storeErr("list housing", err)
	}
	if len(rows) == 0 {
		return []dto.HousingSummary{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	schoolIDs := make([]uuid.UUID, 0, len(rows))
	for _, h := range rows {
		ids = append(ids, h.ID)
		schoolIDs = append(schoolIDs, h.SchoolID)
	}
	reviews, err := s.store.Reviews().ListByHousing(ctx, ids...)
	if err != nil {
		return nil, storeErr("list reviews", err)
	}
	schools, err := s.store.Schools().GetMany(ctx, schoolIDs)
	if err != nil {
		return nil, storeErr("list schools", err)
	}

	byHousing := rating.GroupByHousing(reviews)
	out := make([]dto.HousingSummary, 0, len(rows))
	for _, h := range rows {
		rs := byHousing[h.ID]
		st := rating.Compute(rs)
		if !matchesRent(st, f.MinRent, f.MaxRent) || !matchesAttributes(rs, f) {
			continue
		}
		out = append(out, housingSummary(h, schools[h.SchoolID], st))
	}
	return out, nil
}

// GetHousing returns one housing with detail-style stats, where a housing
// without reviews has a null average rating, plus its reviews.
func (s *Service) GetHousing(ctx context.Context, id uuid.UUID) (dto.HousingDetail, error) {
	h, err := s.store.Housing().Get(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return dto.HousingDetail{}, domain.ErrHousingNotFound
	}
	if err != nil {
		return dto.HousingDetail{}, storeErr("get housing", err)
	}
	school, err := s.store.Schools().GetByID(ctx, h.SchoolID)
	if err != nil {
		return dto.HousingDetail{}, storeErr("get school", err)
	}
	reviews, err := s.store.Reviews().List(ctx, store.ReviewQuery{HousingID: &h.ID})
	if err != nil {
		return dto.HousingDetail{}, storeErr("list reviews", err)
	}
	views, err := s.reviewViews(ctx, reviews)
	if err != nil {
		return dto.HousingDetail{}, err
	}

	st := rating.Compute(reviews)
	categories := st.Categories
	if categories == nil {
		categories = []rating.CategoryAverage{}
	}
	return dto.HousingDetail{
		HousingView:   housingView(*h, *school),
		AverageRating: st.AverageRating,
		ReviewCount:   st.ReviewCount,
		AverageRent:   st.AverageRent,
		Categories:    categories,
		Reviews:       views,
	}, nil
}

func newHousing(schoolID uuid.UUID, d dto.HousingDescriptor, now time.Time) *domain.Housing {
	return &domain.Housing{
		ID:         uuid.New(),
		SchoolID:   schoolID,
		Name:       d.Name,
		Address:    d.Address,
		City:       d.City,
		State:      d.State,
		ZipCode:    d.ZipCode,
		IsOnCampus: d.IsOnCampus,
		CreatedAt:  now.UTC(),
	}
}

// matchesRent applies the rent bounds to the average rent. Housing without
// any reported rent is excluded once a bound is set.
func matchesRent(st rating.Stats, minRent, maxRent *int) bool {
	if minRent == nil && maxRent == nil {
		return true
	}
	if st.AverageRent == nil {
		return false
	}
	if minRent != nil && *st.AverageRent < *minRent {
		return false
	}
	if maxRent != nil && *st.AverageRent > *maxRent {
		return false
	}
	return true
}

func matchesAttributes(reviews []domain.Review, f dto.HousingFilter) bool {
	return matchesFlag(reviews, f.PetsAllowed, func(r domain.Review) *bool { return r.PetsAllowed }) &&
		matchesFlag(reviews, f.UtilitiesIncluded, func(r domain.Review) *bool { return r.UtilitiesIncluded }) &&
		matchesFlag(reviews, f.IsFurnished, func(r domain.Review) *bool { return r.IsFurnished })
}

func matchesFlag(reviews []domain.Review, want *bool, get func(domain.Review) *bool) bool {
	if want == nil {
		return true
	}
	reported := false
	for _, r := range reviews {
		if v := get(r); v != nil && *v {
			reported = true
			break
		}
	}
	return reported == *want
}
