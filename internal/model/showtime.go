package model

import "time"

// Showtime represents a row in the `showtimes` table holding only the
// foreign keys. Endpoints that need the referenced movie and hall use
// ShowtimeDetail instead of overloading these fields.
type Showtime struct {
	ID        uint64    `json:"id"`
	MovieID   uint64    `json:"movie_id"`
	HallID    uint64    `json:"hall_id"`
	StartsAt  time.Time `json:"starts_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShowtimeDetail is the expanded variant of Showtime with the joined
// movie and hall columns filled in. Reference and expanded forms are
// kept as distinct types on purpose.
type ShowtimeDetail struct {
	ID          uint64    `json:"id"`
	MovieID     uint64    `json:"movie_id"`
	MovieTitle  string    `json:"movie_title"`
	DurationMin uint32    `json:"duration_min"`
	HallID      uint64    `json:"hall_id"`
	HallName    string    `json:"hall_name"`
	City        string    `json:"city"`
	StartsAt    time.Time `json:"starts_at"`
}
