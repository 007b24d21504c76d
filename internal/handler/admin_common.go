package handler

import "github.com/cineghar/cineghar-api/internal/config"

// AdminHandler bundles the stores the back office manipulates. Every
// method follows the same lifecycle: bind, validate (400 with the field
// messages), one store call, map sentinels to 404/409, envelope out.
type AdminHandler struct {
	Cfg       config.Config
	Users     UserStore
	Movies    MovieStore
	Halls     HallStore
	Showtimes ShowtimeStore
	Offers    OfferStore
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency
// is nil; wiring bugs should fail at startup, not on first request.
func NewAdminHandler(cfg config.Config, users UserStore, movies MovieStore, halls HallStore, showtimes ShowtimeStore, offers OfferStore) *AdminHandler {
	if users == nil || movies == nil || halls == nil || showtimes == nil || offers == nil {
		panic("nil store passed to NewAdminHandler")
	}
	return &AdminHandler{Cfg: cfg, Users: users, Movies: movies, Halls: halls, Showtimes: showtimes, Offers: offers}
}
