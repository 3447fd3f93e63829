package service

import (
	"context"
	"errors"

	"campusnest/internal/domain"
	"campusnest/internal/dto"
	"campusnest/internal/store"

	"github.com/google/uuid"
)

// SubmitReview resolves the housing descriptor inside the reviewer's school
// and attaches a new review to it.
//
// Housing is matched by case-insensitive name OR case-insensitive address,
// oldest match first, and created when nothing matches. All input is
// validated before the transaction opens. A second review by the same user
// for the same housing fails with ErrDuplicateReview; the unique index on
// (housing_id, user_id) backs the pre-check when two submissions race.
func (s *Service) SubmitReview(ctx context.Context, userID uuid.UUID, req dto.SubmitReviewRequest) (dto.SubmitReviewResponse, error) {
	if userID == uuid.Nil {
		return dto.SubmitReviewResponse{}, domain.ErrUnauthorized
	}
	if err := dto.Validate(req); err != nil {
		return dto.SubmitReviewResponse{}, err
	}

	var reviewID, housingID uuid.UUID
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		user, _, err := s.currentUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		h, err := s.resolveHousing(ctx, tx, user.SchoolID, req.Housing)
		if err != nil {
			return err
		}

		dup, err := tx.Reviews().Exists(ctx, h.ID, user.ID)
		if err != nil {
			return err
		}
		if dup {
			return domain.ErrDuplicateReview
		}

		r := newReview(h.ID, user.ID, req.Review)
		r.CreatedAt = s.now().UTC()
		if err := tx.Reviews().Create(ctx, r); err != nil {
			if store.IsUniqueViolation(err) {
				return domain.ErrDuplicateReview
			}
			return err
		}
		reviewID, housingID = r.ID, h.ID
		return nil
	})
	if err != nil {
		return dto.SubmitReviewResponse{}, storeErr("submit review", err)
	}
	return dto.SubmitReviewResponse{
		Message:   "Review submitted successfully",
		ReviewID:  reviewID.String(),
		HousingID: housingID.String(),
	}, nil
}

func (s *Service) resolveHousing(ctx context.Context, tx *store.Store, schoolID uuid.UUID, d dto.HousingDescriptor) (*domain.Housing, error) {
	h, err := tx.Housing().FindMatch(ctx, schoolID, d.Name, d.Address)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	h = newHousing(schoolID, d, s.now())
	created, err := tx.Housing().InsertIfAbsent(ctx, h)
	if err != nil {
		return nil, err
	}
	if created {
		return h, nil
	}
	// a concurrent submission created the same name first
	return tx.Housing().FindMatch(ctx, schoolID, d.Name, d.Address)
}

func newReview(housingID, userID uuid.UUID, in dto.ReviewInput) *domain.Review {
	images := append([]string(nil), in.Images...)
	if images == nil {
		images = []string{}
	}
	return &domain.Review{
		ID:                uuid.New(),
		HousingID:         housingID,
		UserID:            userID,
		IsAnonymous:       in.IsAnonymous,
		OverallRating:     in.OverallRating,
		LocationRating:    in.LocationRating,
		ValueRating:       in.ValueRating,
		MaintenanceRating: in.MaintenanceRating,
		ManagementRating:  in.ManagementRating,
		AmenitiesRating:   in.AmenitiesRating,
		Title:             in.Title,
		Description:       in.Description,
		MonthlyRent:       in.MonthlyRent,
		UtilitiesIncluded: in.UtilitiesIncluded,
		IsFurnished:       in.IsFurnished,
		PetsAllowed:       in.PetsAllowed,
		Images:            images,
	}
}

// ListReviews returns reviews newest first, optionally narrowed to one
// housing or one author.
func (s *Service) ListReviews(ctx context.Context, f dto.ReviewFilter) ([]dto.ReviewView, error) {
	reviews, err := s.store.Reviews().List(ctx, store.ReviewQuery{HousingID: f.HousingID, UserID: f.UserID})
	if err != nil {
		return nil, storeErr("list reviews", err)
	}
	return s.reviewViews(ctx, reviews)
}

func (s *Service) reviewViews(ctx context.Context, reviews []domain.Review) ([]dto.ReviewView, error) {
	out := make([]dto.ReviewView, 0, len(reviews))
	if len(reviews) == 0 {
		return out, nil
	}

	userIDs := make([]uuid.UUID, 0, len(reviews))
	housingIDs := make([]uuid.UUID, 0, len(reviews))
	for _, r := range reviews {
		userIDs = append(userIDs, r.UserID)
		housingIDs = append(housingIDs, r.HousingID)
	}
	users, err := s.store.Users().GetMany(ctx, userIDs)
	if err != nil {
		return nil, storeErr("load authors", err)
	}
	housing, err := s.store.Housing().GetMany(ctx, housingIDs)
	if err != nil {
		return nil, storeErr("load housing", err)
	}
	schoolIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		schoolIDs = append(schoolIDs, u.SchoolID)
	}
	schools, err := s.store.Schools().GetMany(ctx, schoolIDs)
	if err != nil {
		return nil, storeErr("load schools", err)
	}

	for _, r := range reviews {
		author := users[r.UserID]
		out = append(out, reviewView(r, author, schools[author.SchoolID], housing[r.HousingID]))
	}
	return out, nil
}
