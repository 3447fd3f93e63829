package dto

import "time"

type FavoriteRequest struct {
	HousingID string `json:"housingId" validate:"required,uuid"`
}

// FavoriteView is one favorited housing. AverageRating is null when the
// housing has no reviews.
type FavoriteView struct {
	HousingView
	FavoritedAt   time.Time `json:"favoritedAt"`
	AverageRating *float64  `json:"averageRating"`
	ReviewCount   int       `json:"reviewCount"`
	AverageRent   *int      `json:"averageRent"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
