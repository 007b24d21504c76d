package model

import "time"

// Movie represents a row in the `movies` table. Genres are stored as a
// single comma-joined column and split at the repository boundary.
type Movie struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Genres      []string   `json:"genres"`
	DurationMin uint32     `json:"duration_min"`
	Rating      float64    `json:"rating"`
	PosterPath  *string    `json:"poster,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
