package dto

import (
	"errors"
	"strings"
	"testing"

	"campusnest/internal/domain"

	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func validSubmit() SubmitReviewRequest {
	return SubmitReviewRequest{
		Housing: HousingDescriptor{Name: "Maple Apartments", Address: "100 Main St", City: "El Paso", State: "TX", ZipCode: "79968"},
		Review:  ReviewInput{OverallRating: 8, Description: "Quiet and close to campus."},
	}
}

func TestValidateAcceptsRatingBounds(t *testing.T) {
	for _, r := range []int{1, 10} {
		req := validSubmit()
		req.Review.OverallRating = r
		req.Review.LocationRating = intp(r)
		require.NoError(t, Validate(req), "rating %d", r)
	}
}

func TestValidateRejectsRatingsOutOfRange(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SubmitReviewRequest)
	}{
		{"overall zero", func(r *SubmitReviewRequest) { r.Review.OverallRating = 0 }},
		{"overall eleven", func(r *SubmitReviewRequest) { r.Review.OverallRating = 11 }},
		{"overall negative", func(r *SubmitReviewRequest) { r.Review.OverallRating = -3 }},
		{"location zero", func(r *SubmitReviewRequest) { r.Review.LocationRating = intp(0) }},
		{"amenities eleven", func(r *SubmitReviewRequest) { r.Review.AmenitiesRating = intp(11) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validSubmit()
			tc.mutate(&req)
			err := Validate(req)
			require.Error(t, err)
			require.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestValidateMessages(t *testing.T) {
	req := validSubmit()
	req.Review.ValueRating = intp(42)
	require.Equal(t, "Ratings must be between 1 and 10", domain.Message(Validate(req)))

	req = validSubmit()
	req.Housing.ZipCode = "7996"
	require.Equal(t, "Invalid zip code", domain.Message(Validate(req)))

	req = validSubmit()
	req.Housing.City = ""
	require.Equal(t, "city is required", domain.Message(Validate(req)))

	req = validSubmit()
	req.Review.Images = []string{"a", "b", "c", "d", "e", "f"}
	require.Equal(t, "images may contain at most 5 items", domain.Message(Validate(req)))
}

func TestValidateZipFormats(t *testing.T) {
	for zip, ok := range map[string]bool{
		"79968":      true,
		"79968-1234": true,
		"7996":       false,
		"79968-12":   false,
		"ABCDE":      false,
	} {
		req := validSubmit()
		req.Housing.ZipCode = zip
		if ok {
			require.NoError(t, Validate(req), zip)
		} else {
			require.Error(t, Validate(req), zip)
		}
	}
}

func TestValidateImageLength(t *testing.T) {
	req := validSubmit()
	req.Review.Images = []string{"https://img.example/" + strings.Repeat("a", 2100)}
	require.Error(t, Validate(req))
}

func TestValidateRegister(t *testing.T) {
	require.NoError(t, Validate(RegisterRequest{Name: "A", Email: "a@school.edu", Password: "12345678"}))
	require.Equal(t, "password must be at least 8 characters",
		domain.Message(Validate(RegisterRequest{Name: "A", Email: "a@school.edu", Password: "short"})))
	require.Equal(t, "Invalid email address",
		domain.Message(Validate(RegisterRequest{Name: "A", Email: "not-an-email", Password: "12345678"})))
}
