package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineghar/cineghar-api/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints backing the
// end-user pages. These routes sit behind the redis response cache.
type PublicHandler struct {
	Movies    MovieStore
	Halls     HallStore
	Showtimes ShowtimeStore
	Offers    OfferStore
}

func NewPublicHandler(movies MovieStore, halls HallStore, showtimes ShowtimeStore, offers OfferStore) *PublicHandler {
	if movies == nil || halls == nil || showtimes == nil || offers == nil {
		panic("nil store passed to NewPublicHandler")
	}
	return &PublicHandler{Movies: movies, Halls: halls, Showtimes: showtimes, Offers: offers}
}

// ListMovies handles GET /api/movies?page=&limit=.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	page, limit := parsePagination(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, total, err := h.Movies.List(ctx, page, limit)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not list movies")
	}
	return respondList(c, items, "totalMovies", total, page, limit)
}

// GetMovie handles GET /api/movies/:id.
func (h *PublicHandler) GetMovie(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return respondError(c, http.StatusNotFound, "movie not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not load movie")
	}
	return respondData(c, http.StatusOK, m)
}

// ListHalls handles GET /api/halls?page=&limit=.
func (h *PublicHandler) ListHalls(c echo.Context) error {
	page, limit := parsePagination(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, total, err := h.Halls.List(ctx, page, limit)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not list halls")
	}
	return respondList(c, items, "totalHalls", total, page, limit)
}

// GetOfferByCode handles GET /api/offers/:code, the pre-checkout validity
// check the booking page runs before applying a code. Lookup is
// case-insensitive; `valid` covers the active flag, the date window and
// the redemption cap.
func (h *PublicHandler) GetOfferByCode(c echo.Context) error {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if code == "" {
		return respondError(c, http.StatusBadRequest, "code is required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	o, err := h.Offers.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return respondError(c, http.StatusNotFound, "offer not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not load offer")
	}
	now := time.Now().UTC()
	valid := o.IsActive &&
		!now.Before(o.StartsAt) && now.Before(o.EndsAt) &&
		(o.MaxRedemptions == 0 || o.RedeemedCount < o.MaxRedemptions)
	return respondData(c, http.StatusOK, echo.Map{"offer": o, "valid": valid})
}

// ListShowtimes handles GET /api/showtimes?movie_id=&hall_id=. Rows come
// back expanded with the movie and hall columns so the booking page does
// not fan out into per-row lookups.
func (h *PublicHandler) ListShowtimes(c echo.Context) error {
	movieID, _ := strconv.ParseUint(c.QueryParam("movie_id"), 10, 64)
	hallID, _ := strconv.ParseUint(c.QueryParam("hall_id"), 10, 64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Showtimes.ListDetail(ctx, movieID, hallID)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not list showtimes")
	}
	return respondData(c, http.StatusOK, items)
}
