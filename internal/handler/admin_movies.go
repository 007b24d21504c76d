package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineghar/cineghar-api/internal/model"
	"github.com/cineghar/cineghar-api/internal/repository"
)

type movieCreateReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	DurationMin uint32   `json:"duration_min"`
	Rating      float64  `json:"rating"`
	ReleaseDate *string  `json:"release_date"` // YYYY-MM-DD
}

type moviePatchReq struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Genres      []string `json:"genres"`
	DurationMin *uint32  `json:"duration_min"`
	Rating      *float64 `json:"rating"`
	ReleaseDate *string  `json:"release_date"`
}

// CreateMovie handles POST /api/admin/movies.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req movieCreateReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	var msgs []string
	if strings.TrimSpace(req.Title) == "" {
		msgs = append(msgs, "title is required")
	}
	if req.DurationMin == 0 {
		msgs = append(msgs, "duration_min must be greater than zero")
	}
	if req.Rating < 0 || req.Rating > 10 {
		msgs = append(msgs, "rating must be between 0 and 10")
	}
	var rel *time.Time
	if req.ReleaseDate != nil && *req.ReleaseDate != "" {
		t, err := time.Parse("2006-01-02", *req.ReleaseDate)
		if err != nil {
			msgs = append(msgs, "release_date must be YYYY-MM-DD")
		} else {
			rel = &t
		}
	}
	if len(msgs) > 0 {
		return respondValidation(c, msgs)
	}

	m := model.Movie{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Genres:      req.Genres,
		DurationMin: req.DurationMin,
		Rating:      req.Rating,
		ReleaseDate: rel,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Movies.Create(ctx, &m); err != nil {
		return respondError(c, http.StatusInternalServerError, "could not create movie")
	}
	return respondData(c, http.StatusCreated, m)
}

// ListMovies handles GET /api/admin/movies?page=&limit=.
func (h *AdminHandler) ListMovies(c echo.Context) error {
	page, limit := parsePagination(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, total, err := h.Movies.List(ctx, page, limit)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not list movies")
	}
	return respondList(c, items, "totalMovies", total, page, limit)
}

// GetMovie handles GET /api/admin/movies/:id.
func (h *AdminHandler) GetMovie(c echo.Context) error {
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

// UpdateMovie handles PATCH /api/admin/movies/:id, merging the provided
// subset of fields.
func (h *AdminHandler) UpdateMovie(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req moviePatchReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	var msgs []string
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		msgs = append(msgs, "title cannot be empty")
	}
	if req.DurationMin != nil && *req.DurationMin == 0 {
		msgs = append(msgs, "duration_min must be greater than zero")
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 10) {
		msgs = append(msgs, "rating must be between 0 and 10")
	}
	p := repository.MoviePatch{
		Title:       req.Title,
		Description: req.Description,
		Genres:      req.Genres,
		DurationMin: req.DurationMin,
		Rating:      req.Rating,
	}
	if req.ReleaseDate != nil {
		t, err := time.Parse("2006-01-02", *req.ReleaseDate)
		if err != nil {
			msgs = append(msgs, "release_date must be YYYY-MM-DD")
		} else {
			p.ReleaseDate = &t
		}
	}
	if len(msgs) > 0 {
		return respondValidation(c, msgs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Movies.Update(ctx, id, p); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return respondError(c, http.StatusNotFound, "movie not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not update movie")
	}
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not load movie")
	}
	return respondData(c, http.StatusOK, m)
}

// DeleteMovie handles DELETE /api/admin/movies/:id.
func (h *AdminHandler) DeleteMovie(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return respondError(c, http.StatusNotFound, "movie not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not delete movie")
	}
	return respondMessage(c, http.StatusOK, "movie deleted")
}
