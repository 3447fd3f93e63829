package store

import (
	"context"

	"campusnest/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteStore struct{ db *gorm.DB }

func (s *Store) Favorites() *FavoriteStore { return &FavoriteStore{db: s.DB} }

// Add inserts the (user, housing) pair. A second insert of the same pair
// fails with a unique violation from the composite primary key.
func (fs *FavoriteStore) Add(ctx context.Context, f *domain.Favorite) error {
	return fs.db.WithContext(ctx).Create(f).Error
}

// Remove deletes the pair and reports whether it existed.
func (fs *FavoriteStore) Remove(ctx context.Context, userID, housingID uuid.UUID) (bool, error) {
	tx := fs.db.WithContext(ctx).
		Where("user_id = ? AND housing_id = ?", userID, housingID).
		Delete(&domain.Favorite{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// ListByUser returns the user's favorites, most recently added first.
func (fs *FavoriteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	var out []domain.Favorite
	err := fs.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, housing_id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
