package domain

import "time"

type User struct {
	ID           UserID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Name         string    `gorm:"type:text;not null" db:"name" json:"name"`
	Email        string    `gorm:"type:text;not null;uniqueIndex:ux_users_email" db:"email" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" db:"password_hash" json:"-"`
	SchoolID     SchoolID  `gorm:"type:uuid;not null;index" db:"school_id" json:"schoolId"`
	IsVerified   bool      `gorm:"not null;default:false" db:"is_verified" json:"isVerified"`
	CreatedAt    time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
