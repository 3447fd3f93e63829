package domain

import "time"

type Favorite struct {
	UserID    UserID    `gorm:"type:uuid;primaryKey" db:"user_id" json:"userId"`
	HousingID HousingID `gorm:"type:uuid;primaryKey;index" db:"housing_id" json:"housingId"`
	CreatedAt time.Time `gorm:"not null;index" db:"created_at" json:"createdAt"`
}

func (Favorite) TableName() string { return "favorites" }
