package store

import (
	"context"

	"campusnest/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewStore struct{ db *gorm.DB }

func (s *Store) Reviews() *ReviewStore { return &ReviewStore{db: s.DB} }

type ReviewQuery struct {
	HousingID *uuid.UUID
	UserID    *uuid.UUID
}

func (rs *ReviewStore) Create(ctx context.Context, r *domain.Review) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return rs.db.WithContext(ctx).Create(r).Error
}

func (rs *ReviewStore) Exists(ctx context.Context, housingID, userID uuid.UUID) (bool, error) {
	var n int64
	err := rs.db.WithContext(ctx).Model(&domain.Review{}).
		Where("housing_id = ? AND user_id = ?", housingID, userID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByHousing returns every review of the given housing ids.
func (rs *ReviewStore) ListByHousing(ctx context.Context, ids ...uuid.UUID) ([]domain.Review, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.Review
	err := rs.db.WithContext(ctx).
		Where("housing_id IN ?", ids).
		Order("created_at DESC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns reviews newest first.
func (rs *ReviewStore) List(ctx context.Context, q ReviewQuery) ([]domain.Review, error) {
	tx := rs.db.WithContext(ctx).Model(&domain.Review{})
	if q.HousingID != nil {
		tx = tx.Where("housing_id = ?", *q.HousingID)
	}
	if q.UserID != nil {
		tx = tx.Where("user_id = ?", *q.UserID)
	}
	var out []domain.Review
	if err := tx.Order("created_at DESC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
