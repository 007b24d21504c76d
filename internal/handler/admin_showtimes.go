package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineghar/cineghar-api/internal/model"
	"github.com/cineghar/cineghar-api/internal/repository"
)

type showtimeCreateReq struct {
	MovieID  uint64    `json:"movie_id"`
	HallID   uint64    `json:"hall_id"`
	StartsAt time.Time `json:"starts_at"`
}

type showtimePatchReq struct {
	MovieID  *uint64    `json:"movie_id"`
	HallID   *uint64    `json:"hall_id"`
	StartsAt *time.Time `json:"starts_at"`
}

// CreateShowtime handles POST /api/admin/showtimes. The referenced movie
// and hall must exist; overlapping showtimes in one hall are accepted as
// before.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
	var req showtimeCreateReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	var msgs []string
	if req.MovieID == 0 {
		msgs = append(msgs, "movie_id is required")
	}
	if req.HallID == 0 {
		msgs = append(msgs, "hall_id is required")
	}
	if req.StartsAt.IsZero() {
		msgs = append(msgs, "starts_at is required")
	}
	if len(msgs) > 0 {
		return respondValidation(c, msgs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return respondError(c, http.StatusNotFound, "movie not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not verify movie")
	}
	if _, err := h.Halls.GetByID(ctx, req.HallID); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return respondError(c, http.StatusNotFound, "hall not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not verify hall")
	}

	s := model.Showtime{MovieID: req.MovieID, HallID: req.HallID, StartsAt: req.StartsAt.UTC()}
	if err := h.Showtimes.Create(ctx, &s); err != nil {
		return respondError(c, http.StatusInternalServerError, "could not create showtime")
	}
	return respondData(c, http.StatusCreated, s)
}

// ListShowtimes handles GET /api/admin/showtimes?page=&limit=.
func (h *AdminHandler) ListShowtimes(c echo.Context) error {
	page, limit := parsePagination(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, total, err := h.Showtimes.List(ctx, page, limit)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not list showtimes")
	}
	return respondList(c, items, "totalShowtimes", total, page, limit)
}

// GetShowtime handles GET /api/admin/showtimes/:id.
func (h *AdminHandler) GetShowtime(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	s, err := h.Showtimes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return respondError(c, http.StatusNotFound, "showtime not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not load showtime")
	}
	return respondData(c, http.StatusOK, s)
}

// UpdateShowtime handles PATCH /api/admin/showtimes/:id. Changed
// references are verified before the merge.
func (h *AdminHandler) UpdateShowtime(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req showtimePatchReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.MovieID != nil {
		if _, err := h.Movies.GetByID(ctx, *req.MovieID); err != nil {
			if errors.Is(err, repository.ErrMovieNotFound) {
				return respondError(c, http.StatusNotFound, "movie not found")
			}
			return respondError(c, http.StatusInternalServerError, "could not verify movie")
		}
	}
	if req.HallID != nil {
		if _, err := h.Halls.GetByID(ctx, *req.HallID); err != nil {
			if errors.Is(err, repository.ErrHallNotFound) {
				return respondError(c, http.StatusNotFound, "hall not found")
			}
			return respondError(c, http.StatusInternalServerError, "could not verify hall")
		}
	}

	p := repository.ShowtimePatch{MovieID: req.MovieID, HallID: req.HallID}
	if req.StartsAt != nil {
		t := req.StartsAt.UTC()
		p.StartsAt = &t
	}
	if err := h.Showtimes.Update(ctx, id, p); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return respondError(c, http.StatusNotFound, "showtime not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not update showtime")
	}
	s, err := h.Showtimes.GetByID(ctx, id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not load showtime")
	}
	return respondData(c, http.StatusOK, s)
}

// DeleteShowtime handles DELETE /api/admin/showtimes/:id.
func (h *AdminHandler) DeleteShowtime(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Showtimes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return respondError(c, http.StatusNotFound, "showtime not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not delete showtime")
	}
	return respondMessage(c, http.StatusOK, "showtime deleted")
}
