package domain

import "time"

const (
	DefaultColorPrimary   = "#DC4405"
	DefaultColorSecondary = "#000000"
)

type School struct {
	ID             SchoolID  `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Name           string    `gorm:"type:text;not null" db:"name" json:"name"`
	Domain         string    `gorm:"type:text;not null;uniqueIndex:ux_schools_domain" db:"domain" json:"domain"`
	Slug           string    `gorm:"type:text;not null" db:"slug" json:"slug"`
	ColorPrimary   string    `gorm:"type:text;not null" db:"color_primary" json:"colorPrimary"`
	ColorSecondary string    `gorm:"type:text;not null" db:"color_secondary" json:"colorSecondary"`
	CreatedAt      time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
}

func (School) TableName() string { return "schools" }
