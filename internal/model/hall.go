package model

import "time"

// Cities with at least one operating hall. The city column is validated
// against this set before a hall is written.
var SupportedCities = []string{
	"Kathmandu", "Pokhara", "Lalitpur", "Bhaktapur", "Biratnagar", "Butwal",
}

// IsSupportedCity reports whether city is one of SupportedCities.
func IsSupportedCity(city string) bool {
	for _, c := range SupportedCities {
		if c == city {
			return true
		}
	}
	return false
}

// CinemaHall represents a row in the `halls` table. Facilities is a list
// of free-form tags ("parking", "dolby-atmos", ...) stored comma-joined.
type CinemaHall struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	City       string    `json:"city"`
	Location   string    `json:"location"`
	Rating     *float64  `json:"rating,omitempty"`
	Facilities []string  `json:"facilities"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
