package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineghar/cineghar-api/internal/model"
	"github.com/cineghar/cineghar-api/internal/repository"
)

type hallCreateReq struct {
	Name       string   `json:"name"`
	City       string   `json:"city"`
	Location   string   `json:"location"`
	Rating     *float64 `json:"rating"`
	Facilities []string `json:"facilities"`
}

type hallPatchReq struct {
	Name       *string  `json:"name"`
	City       *string  `json:"city"`
	Location   *string  `json:"location"`
	Rating     *float64 `json:"rating"`
	Facilities []string `json:"facilities"`
}

func cityMessage() string {
	return fmt.Sprintf("city must be one of: %s", strings.Join(model.SupportedCities, ", "))
}

// CreateHall handles POST /api/admin/halls.
func (h *AdminHandler) CreateHall(c echo.Context) error {
	var req hallCreateReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	var msgs []string
	if strings.TrimSpace(req.Name) == "" {
		msgs = append(msgs, "name is required")
	}
	if !model.IsSupportedCity(req.City) {
		msgs = append(msgs, cityMessage())
	}
	if strings.TrimSpace(req.Location) == "" {
		msgs = append(msgs, "location is required")
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		msgs = append(msgs, "rating must be between 0 and 5")
	}
	if len(msgs) > 0 {
		return respondValidation(c, msgs)
	}

	hall := model.CinemaHall{
		Name:       strings.TrimSpace(req.Name),
		City:       req.City,
		Location:   strings.TrimSpace(req.Location),
		Rating:     req.Rating,
		Facilities: req.Facilities,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Halls.Create(ctx, &hall); err != nil {
		return respondError(c, http.StatusInternalServerError, "could not create hall")
	}
	return respondData(c, http.StatusCreated, hall)
}

// ListHalls handles GET /api/admin/halls?page=&limit=.
func (h *AdminHandler) ListHalls(c echo.Context) error {
	page, limit := parsePagination(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, total, err := h.Halls.List(ctx, page, limit)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not list halls")
	}
	return respondList(c, items, "totalHalls", total, page, limit)
}

// GetHall handles GET /api/admin/halls/:id.
func (h *AdminHandler) GetHall(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	hall, err := h.Halls.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return respondError(c, http.StatusNotFound, "hall not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not load hall")
	}
	return respondData(c, http.StatusOK, hall)
}

// UpdateHall handles PATCH /api/admin/halls/:id.
func (h *AdminHandler) UpdateHall(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req hallPatchReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	var msgs []string
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		msgs = append(msgs, "name cannot be empty")
	}
	if req.City != nil && !model.IsSupportedCity(*req.City) {
		msgs = append(msgs, cityMessage())
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		msgs = append(msgs, "rating must be between 0 and 5")
	}
	if len(msgs) > 0 {
		return respondValidation(c, msgs)
	}

	p := repository.HallPatch{
		Name:       req.Name,
		City:       req.City,
		Location:   req.Location,
		Rating:     req.Rating,
		Facilities: req.Facilities,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Halls.Update(ctx, id, p); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return respondError(c, http.StatusNotFound, "hall not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not update hall")
	}
	hall, err := h.Halls.GetByID(ctx, id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not load hall")
	}
	return respondData(c, http.StatusOK, hall)
}

// DeleteHall handles DELETE /api/admin/halls/:id.
func (h *AdminHandler) DeleteHall(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Halls.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return respondError(c, http.StatusNotFound, "hall not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not delete hall")
	}
	return respondMessage(c, http.StatusOK, "hall deleted")
}
