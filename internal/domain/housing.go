package domain

import (
	"strings"
	"time"
)

// Housing is a reviewable property scoped to one school. NameKey and
// AddressKey hold the lower-cased name and address used for
// case-insensitive lookups; (SchoolID, NameKey) is unique.
type Housing struct {
	ID         HousingID `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	SchoolID   SchoolID  `gorm:"type:uuid;not null;uniqueIndex:ux_housing_school_name,priority:1;index:ix_housing_school_address,priority:1" db:"school_id" json:"schoolId"`
	Name       string    `gorm:"type:text;not null" db:"name" json:"name"`
	NameKey    string    `gorm:"type:text;not null;uniqueIndex:ux_housing_school_name,priority:2" db:"name_key" json:"-"`
	Address    string    `gorm:"type:text;not null" db:"address" json:"address"`
	AddressKey string    `gorm:"type:text;not null;index:ix_housing_school_address,priority:2" db:"address_key" json:"-"`
	City       string    `gorm:"type:text;not null" db:"city" json:"city"`
	State      string    `gorm:"type:text;not null" db:"state" json:"state"`
	ZipCode    string    `gorm:"type:text;not null" db:"zip_code" json:"zipCode"`
	IsOnCampus bool      `gorm:"not null;default:false" db:"is_on_campus" json:"isOnCampus"`
	CreatedAt  time.Time `gorm:"not null;index" db:"created_at" json:"createdAt"`
}

func (Housing) TableName() string { return "housing" }

// LookupKey is the case-insensitive form used for NameKey and AddressKey.
// Whitespace and abbreviations are deliberately left alone.
func LookupKey(s string) string { return strings.ToLower(s) }
