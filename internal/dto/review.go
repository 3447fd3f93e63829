package dto

import (
	"time"

	"github.com/google/uuid"
)

type ReviewInput struct {
	IsAnonymous       bool     `json:"isAnonymous"`
	OverallRating     int      `json:"overallRating" validate:"required,rating"`
	LocationRating    *int     `json:"locationRating" validate:"omitempty,rating"`
	ValueRating       *int     `json:"valueRating" validate:"omitempty,rating"`
	MaintenanceRating *int     `json:"maintenanceRating" validate:"omitempty,rating"`
	ManagementRating  *int     `json:"managementRating" validate:"omitempty,rating"`
	AmenitiesRating   *int     `json:"amenitiesRating" validate:"omitempty,rating"`
	Title             *string  `json:"title" validate:"omitempty,max=200"`
	Description       string   `json:"description" validate:"required,max=5000"`
	MonthlyRent       *int     `json:"monthlyRent" validate:"omitempty,min=0,max=100000"`
	UtilitiesIncluded *bool    `json:"utilitiesIncluded"`
	IsFurnished       *bool    `json:"isFurnished"`
	PetsAllowed       *bool    `json:"petsAllowed"`
	Images            []string `json:"images" validate:"max=5,dive,required,max=2048"`
}

type SubmitReviewRequest struct {
	Housing HousingDescriptor `json:"housing"`
	Review  ReviewInput       `json:"review"`
}

type SubmitReviewResponse struct {
	Message   string `json:"message"`
	ReviewID  string `json:"reviewId"`
	HousingID string `json:"housingId"`
}

type ReviewFilter struct {
	HousingID *uuid.UUID
	UserID    *uuid.UUID
}

type ReviewAuthor struct {
	Name   string    `json:"name"`
	School SchoolRef `json:"school"`
}

type ReviewHousing struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
}

type ReviewView struct {
	ID                string        `json:"id"`
	HousingID         string        `json:"housingId"`
	IsAnonymous       bool          `json:"isAnonymous"`
	OverallRating     int           `json:"overallRating"`
	LocationRating    *int          `json:"locationRating"`
	ValueRating       *int          `json:"valueRating"`
	MaintenanceRating *int          `json:"maintenanceRating"`
	ManagementRating  *int          `json:"managementRating"`
	AmenitiesRating   *int          `json:"amenitiesRating"`
	Title             *string       `json:"title"`
	Description       string        `json:"description"`
	MonthlyRent       *int          `json:"monthlyRent"`
	UtilitiesIncluded *bool         `json:"utilitiesIncluded"`
	IsFurnished       *bool         `json:"isFurnished"`
	PetsAllowed       *bool         `json:"petsAllowed"`
	Images            []string      `json:"images"`
	CreatedAt         time.Time     `json:"createdAt"`
	User              ReviewAuthor  `json:"user"`
	Housing           ReviewHousing `json:"housing"`
}
