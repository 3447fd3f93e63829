package store

import (
	"context"

	"campusnest/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HousingStore struct{ db *gorm.DB }

func (s *Store) Housing() *HousingStore { return &HousingStore{db: s.DB} }

type HousingQuery struct {
	SchoolID   *uuid.UUID
	City       string
	IsOnCampus *bool
}

// InsertIfAbsent creates h unless a housing with the same case-insensitive
// name already exists in its school. It reports whether a row was written.
func (hs *HousingStore) InsertIfAbsent(ctx context.Context, h *domain.Housing) (bool, error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.NameKey = domain.LookupKey(h.Name)
	h.AddressKey = domain.LookupKey(h.Address)
	tx := hs.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "school_id"}, {Name: "name_key"}},
			DoNothing: true,
		}).
		Create(h)
	return tx.RowsAffected > 0, tx.Error
}

// FindMatch returns the oldest housing in the school whose name or address
// matches case-insensitively.
func (hs *HousingStore) FindMatch(ctx context.Context, schoolID uuid.UUID, name, address string) (*domain.Housing, error) {
	var h domain.Housing
	err := hs.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Where(hs.db.Where("name_key = ?", domain.LookupKey(name)).Or("address_key = ?", domain.LookupKey(address))).
		Order("created_at ASC, id ASC").
		First(&h).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

// FindExact matches name and address exactly, as typed.
func (hs *HousingStore) FindExact(ctx context.Context, schoolID uuid.UUID, name, address string) (*domain.Housing, error) {
	var h domain.Housing
	err := hs.db.WithContext(ctx).
		First(&h, "school_id = ? AND name = ? AND address = ?", schoolID, name, address).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

func (hs *HousingStore) Get(ctx context.Context, id uuid.UUID) (*domain.Housing, error) {
	var h domain.Housing
	if err := hs.db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

func (hs *HousingStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := hs.db.WithContext(ctx).Model(&domain.Housing{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns housing newest first.
func (hs *HousingStore) List(ctx context.Context, q HousingQuery) ([]domain.Housing, error) {
	tx := hs.db.WithContext(ctx).Model(&domain.Housing{})
	if q.SchoolID != nil {
		tx = tx.Where("school_id = ?", *q.SchoolID)
	}
	if q.City != "" {
		tx = tx.Where("LOWER(city) = ?", domain.LookupKey(q.City))
	}
	if q.IsOnCampus != nil {
		tx = tx.Where("is_on_campus = ?", *q.IsOnCampus)
	}
	var out []domain.Housing
	if err := tx.Order("created_at DESC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (hs *HousingStore) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Housing, error) {
	out := make(map[uuid.UUID]domain.Housing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.Housing
	if err := hs.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, h := range rows {
		out[h.ID] = h
	}
	return out, nil
}
