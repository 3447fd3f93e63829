package service

import (
	"context"

	"campusnest/internal/domain"
	"campusnest/internal/dto"
	"campusnest/internal/rating"
	"campusnest/internal/store"

	"github.com/google/uuid"
)

// AddFavorite bookmarks a housing for the user. The composite primary key
// on favorites turns a repeated add into ErrAlreadyFavorited.
func (s *Service) AddFavorite(ctx context.Context, userID, housingID uuid.UUID) (domain.Favorite, error) {
	if userID == uuid.Nil {
		return domain.Favorite{}, domain.ErrUnauthorized
	}
	if housingID == uuid.Nil {
		return domain.Favorite{}, domain.Validationf("Housing ID is required")
	}

	ok, err := s.store.Housing().Exists(ctx, housingID)
	if err != nil {
		return domain.Favorite{}, storeErr("check housing", err)
	}
	if !ok {
		return domain.Favorite{}, domain.ErrHousingNotFound
	}

	fav := domain.Favorite{UserID: userID, HousingID: housingID, CreatedAt: s.now().UTC()}
	if err := s.store.Favorites().Add(ctx, &fav); err != nil {
		if store.IsUniqueViolation(err) {
			return domain.Favorite{}, domain.ErrAlreadyFavorited
		}
		return domain.Favorite{}, storeErr("add favorite", err)
	}
	return fav, nil
}

// RemoveFavorite deletes the bookmark, failing with ErrFavoriteNotFound when
// there was none.
func (s *Service) RemoveFavorite(ctx context.Context, userID, housingID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthorized
	}
	if housingID == uuid.Nil {
		return domain.Validationf("Housing ID is required")
	}
	removed, err := s.store.Favorites().Remove(ctx, userID, housingID)
	if err != nil {
		return storeErr("remove favorite", err)
	}
	if !removed {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

// ListFavorites returns the user's favorited housing, most recent favorite
// first. Housing without reviews has a null average rating here.
func (s *Service) ListFavorites(ctx context.Context, userID uuid.UUID) ([]dto.FavoriteView, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	favs, err := s.store.Favorites().ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list favorites", err)
	}
	out := make([]dto.FavoriteView, 0, len(favs))
	if len(favs) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.HousingID)
	}
	housing, err := s.store.Housing().GetMany(ctx, ids)
	if err != nil {
		return nil, storeErr("load housing", err)
	}
	reviews, err := s.store.Reviews().ListByHousing(ctx, ids...)
	if err != nil {
		return nil, storeErr("load reviews", err)
	}
	schoolIDs := make([]uuid.UUID, 0, len(housing))
	for _, h := range housing {
		schoolIDs = append(schoolIDs, h.SchoolID)
	}
	schools, err := s.store.Schools().GetMany(ctx, schoolIDs)
	if err != nil {
		return nil, storeErr("load schools", err)
	}

	byHousing := rating.GroupByHousing(reviews)
	for _, f := range favs {
		h, ok := housing[f.HousingID]
		if !ok {
			continue
		}
		st := rating.Compute(byHousing[h.ID])
		out = append(out, dto.FavoriteView{
			HousingView:   housingView(h, schools[h.SchoolID]),
			FavoritedAt:   f.CreatedAt,
			AverageRating: st.AverageRating,
			ReviewCount:   st.ReviewCount,
			AverageRent:   st.AverageRent,
		})
	}
	return out, nil
}
