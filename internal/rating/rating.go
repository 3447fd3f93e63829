// Package rating computes read-time statistics over a housing's reviews.
//
// Nothing here is cached or persisted: callers recompute on every read from
// the raw review rows. Ratings stay on the stored 1-10 scale; converting to
// five stars is a presentation concern (see Stars).
package rating

import (
	"math"

	"campusnest/internal/domain"
)

// Category names of the optional sub-ratings, in display order.
const (
	CategoryLocation    = "Location"
	CategoryValue       = "Value"
	CategoryMaintenance = "Maintenance"
	CategoryManagement  = "Management"
	CategoryAmenities   = "Amenities"
)

type CategoryAverage struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// Stats are the derived values for one housing. AverageRating and
// AverageRent are nil when no review supplies a value; call sites choose
// their own default for presentation.
type Stats struct {
	AverageRating *float64
	AverageRent   *int
	ReviewCount   int
	Categories    []CategoryAverage
}

// RatingOrZero is the list-endpoint presentation of AverageRating.
func (s Stats) RatingOrZero() float64 {
	if s.AverageRating == nil {
		return 0
	}
	return *s.AverageRating
}

// Compute derives Stats from reviews. It does not modify its input.
func Compute(reviews []domain.Review) Stats {
	st := Stats{ReviewCount: len(reviews)}
	if len(reviews) == 0 {
		return st
	}

	overall := 0
	rentSum, rentN := 0, 0
	for _, r := range reviews {
		overall += r.OverallRating
		if r.MonthlyRent != nil {
			rentSum += *r.MonthlyRent
			rentN++
		}
	}

	avg := roundTenth(float64(overall) / float64(len(reviews)))
	st.AverageRating = &avg
	if rentN > 0 {
		rent := int(math.Round(float64(rentSum) / float64(rentN)))
		st.AverageRent = &rent
	}
	st.Categories = Breakdown(reviews)
	return st
}

// Breakdown averages each sub-rating over the reviews that supplied it and
// omits categories nobody rated.
func Breakdown(reviews []domain.Review) []CategoryAverage {
	pick := []struct {
		name string
		get  func(domain.Review) *int
	}{
		{CategoryLocation, func(r domain.Review) *int { return r.LocationRating }},
		{CategoryValue, func(r domain.Review) *int { return r.ValueRating }},
		{CategoryMaintenance, func(r domain.Review) *int { return r.MaintenanceRating }},
		{CategoryManagement, func(r domain.Review) *int { return r.ManagementRating }},
		{CategoryAmenities, func(r domain.Review) *int { return r.AmenitiesRating }},
	}

	out := make([]CategoryAverage, 0, len(pick))
	for _, c := range pick {
		sum, n := 0, 0
		for _, r := range reviews {
			if v := c.get(r); v != nil {
				sum += *v
				n++
			}
		}
		if n == 0 {
			continue
		}
		out = append(out, CategoryAverage{Name: c.name, Rating: roundTenth(float64(sum) / float64(n))})
	}
	return out
}

// GroupByHousing buckets reviews by housing id, preserving input order.
func GroupByHousing(reviews []domain.Review) map[domain.HousingID][]domain.Review {
	out := make(map[domain.HousingID][]domain.Review)
	for _, r := range reviews {
		out[r.HousingID] = append(out[r.HousingID], r)
	}
	return out
}

// Stars converts a 1-10 rating to the 1-5 star scale.
func Stars(r float64) float64 { return r / 2 }

func roundTenth(v float64) float64 { return math.Round(v*10) / 10 }
