package dto

import (
	"time"

	"campusnest/internal/rating"

	"github.com/google/uuid"
)

// HousingDescriptor identifies a property as a reviewer types it.
type HousingDescriptor struct {
	Name       string `json:"name" validate:"required,max=200"`
	Address    string `json:"address" validate:"required,max=300"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=50"`
	ZipCode    string `json:"zipCode" validate:"required,zipcode"`
	IsOnCampus bool   `json:"isOnCampus"`
}

// HousingFilter narrows a listing. The attribute filters match a housing when
// any of its reviews reports the attribute as true; false matches housing
// with no such report.
type HousingFilter struct {
	SchoolID          *uuid.UUID
	City              string
	IsOnCampus        *bool
	MinRent           *int
	MaxRent           *int
	PetsAllowed       *bool
	UtilitiesIncluded *bool
	IsFurnished       *bool
}

type SchoolRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type HousingView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	ZipCode    string    `json:"zipCode"`
	IsOnCampus bool      `json:"isOnCampus"`
	School     SchoolRef `json:"school"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HousingSummary is a list row. AverageRating is 0 when there are no reviews.
type HousingSummary struct {
	HousingView
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
	AverageRent   *int    `json:"averageRent"`
}

// HousingDetail is the single-housing view. AverageRating is null when there
// are no reviews.
type HousingDetail struct {
	HousingView
	AverageRating *float64                 `json:"averageRating"`
	ReviewCount   int                      `json:"reviewCount"`
	AverageRent   *int                     `json:"averageRent"`
	Categories    []rating.CategoryAverage `json:"categoryRatings"`
	Reviews       []ReviewView             `json:"reviews"`
}
