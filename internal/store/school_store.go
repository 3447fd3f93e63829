package store

import (
	"context"

	"campusnest/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SchoolStore struct{ db *gorm.DB }

func (s *Store) Schools() *SchoolStore { return &SchoolStore{db: s.DB} }

// Ensure inserts school unless its domain already exists and returns the
// stored row either way.
func (ss *SchoolStore) Ensure(ctx context.Context, school domain.School) (*domain.School, error) {
	if school.ID == uuid.Nil {
		school.ID = uuid.New()
	}
	err := ss.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "domain"}},
			DoNothing: true,
		}).
		Create(&school).Error
	if err != nil {
		return nil, err
	}
	return ss.GetByDomain(ctx, school.Domain)
}

func (ss *SchoolStore) GetByDomain(ctx context.Context, domainName string) (*domain.School, error) {
	var school domain.School
	if err := ss.db.WithContext(ctx).First(&school, "domain = ?", domainName).Error; err != nil {
		return nil, notFound(err)
	}
	return &school, nil
}

func (ss *SchoolStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.School, error) {
	var school domain.School
	if err := ss.db.WithContext(ctx).First(&school, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &school, nil
}

func (ss *SchoolStore) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.School, error) {
	out := make(map[uuid.UUID]domain.School, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var schools []domain.School
	if err := ss.db.WithContext(ctx).Where("id IN ?", ids).Find(&schools).Error; err != nil {
		return nil, err
	}
	for _, s := range schools {
		out[s.ID] = s
	}
	return out, nil
}
