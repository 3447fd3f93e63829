package domain

import "time"

const (
	MinRating = 1
	MaxRating = 10
)

// Review is immutable once written. At most one review exists per
// (HousingID, UserID); the unique index backs the service pre-check.
type Review struct {
	ID                ReviewID  `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	HousingID         HousingID `gorm:"type:uuid;not null;uniqueIndex:ux_reviews_housing_user,priority:1" db:"housing_id" json:"housingId"`
	UserID            UserID    `gorm:"type:uuid;not null;uniqueIndex:ux_reviews_housing_user,priority:2;index" db:"user_id" json:"userId"`
	IsAnonymous       bool      `gorm:"not null;default:false" db:"is_anonymous" json:"isAnonymous"`
	OverallRating     int       `gorm:"not null" db:"overall_rating" json:"overallRating"`
	LocationRating    *int      `db:"location_rating" json:"locationRating"`
	ValueRating       *int      `db:"value_rating" json:"valueRating"`
	MaintenanceRating *int      `db:"maintenance_rating" json:"maintenanceRating"`
	ManagementRating  *int      `db:"management_rating" json:"managementRating"`
	AmenitiesRating   *int      `db:"amenities_rating" json:"amenitiesRating"`
	Title             *string   `gorm:"type:text" db:"title" json:"title"`
	Description       string    `gorm:"type:text;not null" db:"description" json:"description"`
	MonthlyRent       *int      `db:"monthly_rent" json:"monthlyRent"`
	UtilitiesIncluded *bool     `db:"utilities_included" json:"utilitiesIncluded"`
	IsFurnished       *bool     `db:"is_furnished" json:"isFurnished"`
	PetsAllowed       *bool     `db:"pets_allowed" json:"petsAllowed"`
	Images            []string  `gorm:"type:text;serializer:json" db:"images" json:"images"`
	CreatedAt         time.Time `gorm:"not null;index" db:"created_at" json:"createdAt"`
}

func (Review) TableName() string { return "reviews" }
