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

type offerCreateReq struct {
	Name            string    `json:"name"`
	Code            string    `json:"code"`
	DiscountType    string    `json:"discount_type"`
	DiscountPercent float64   `json:"discount_percent"`
	DiscountAmount  float64   `json:"discount_amount"`
	BonusPoints     uint32    `json:"bonus_points"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	IsActive        *bool     `json:"is_active"`
	MaxRedemptions  uint32    `json:"max_redemptions"`
}

type offerPatchReq struct {
	Name            *string    `json:"name"`
	Code            *string    `json:"code"`
	DiscountType    *string    `json:"discount_type"`
	DiscountPercent *float64   `json:"discount_percent"`
	DiscountAmount  *float64   `json:"discount_amount"`
	BonusPoints     *uint32    `json:"bonus_points"`
	StartsAt        *time.Time `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
	IsActive        *bool      `json:"is_active"`
	MaxRedemptions  *uint32    `json:"max_redemptions"`
}

// validateOfferRanges checks the value ranges shared by create and patch.
// Which discount fields must accompany which type is deliberately not
// enforced; the schema stays lenient about cross-field consistency.
func validateOfferRanges(percent, amount *float64) []string {
	var msgs []string
	if percent != nil && (*percent < 0 || *percent > 100) {
		msgs = append(msgs, "discount_percent must be between 0 and 100")
	}
	if amount != nil && *amount < 0 {
		msgs = append(msgs, "discount_amount cannot be negative")
	}
	return msgs
}

// CreateOffer handles POST /api/admin/offers.
func (h *AdminHandler) CreateOffer(c echo.Context) error {
	var req offerCreateReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	var msgs []string
	if strings.TrimSpace(req.Name) == "" {
		msgs = append(msgs, "name is required")
	}
	if strings.TrimSpace(req.Code) == "" {
		msgs = append(msgs, "code is required")
	}
	if !model.IsDiscountType(req.DiscountType) {
		msgs = append(msgs, "discount_type must be percentage, fixed or bonus")
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		msgs = append(msgs, "starts_at and ends_at are required")
	} else if !req.EndsAt.After(req.StartsAt) {
		msgs = append(msgs, "ends_at must be after starts_at")
	}
	msgs = append(msgs, validateOfferRanges(&req.DiscountPercent, &req.DiscountAmount)...)
	if len(msgs) > 0 {
		return respondValidation(c, msgs)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	o := model.Offer{
		Name: strings.TrimSpace(req.Name),
		// Codes are case-insensitive at redemption, so they are stored
		// upper-cased, like emails are stored lower-cased.
		Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:    req.DiscountType,
		DiscountPercent: req.DiscountPercent,
		DiscountAmount:  req.DiscountAmount,
		BonusPoints:     req.BonusPoints,
		StartsAt:        req.StartsAt.UTC(),
		EndsAt:          req.EndsAt.UTC(),
		IsActive:        active,
		MaxRedemptions:  req.MaxRedemptions,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Offers.Create(ctx, &o); err != nil {
		if errors.Is(err, repository.ErrOfferCodeExists) {
			return respondError(c, http.StatusConflict, "an offer with this code already exists")
		}
		return respondError(c, http.StatusInternalServerError, "could not create offer")
	}
	return respondData(c, http.StatusCreated, o)
}

// ListOffers handles GET /api/admin/offers?page=&limit=.
func (h *AdminHandler) ListOffers(c echo.Context) error {
	page, limit := parsePagination(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, total, err := h.Offers.List(ctx, page, limit)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not list offers")
	}
	return respondList(c, items, "totalOffers", total, page, limit)
}

// GetOffer handles GET /api/admin/offers/:id.
func (h *AdminHandler) GetOffer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	o, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return respondError(c, http.StatusNotFound, "offer not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not load offer")
	}
	return respondData(c, http.StatusOK, o)
}

// UpdateOffer handles PATCH /api/admin/offers/:id.
func (h *AdminHandler) UpdateOffer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req offerPatchReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	var msgs []string
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		msgs = append(msgs, "name cannot be empty")
	}
	if req.Code != nil && strings.TrimSpace(*req.Code) == "" {
		msgs = append(msgs, "code cannot be empty")
	}
	if req.DiscountType != nil && !model.IsDiscountType(*req.DiscountType) {
		msgs = append(msgs, "discount_type must be percentage, fixed or bonus")
	}
	if req.StartsAt != nil && req.EndsAt != nil && !req.EndsAt.After(*req.StartsAt) {
		msgs = append(msgs, "ends_at must be after starts_at")
	}
	msgs = append(msgs, validateOfferRanges(req.DiscountPercent, req.DiscountAmount)...)
	if len(msgs) > 0 {
		return respondValidation(c, msgs)
	}

	p := repository.OfferPatch{
		Name:            req.Name,
		DiscountType:    req.DiscountType,
		DiscountPercent: req.DiscountPercent,
		DiscountAmount:  req.DiscountAmount,
		BonusPoints:     req.BonusPoints,
		IsActive:        req.IsActive,
		MaxRedemptions:  req.MaxRedemptions,
	}
	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		p.Code = &code
	}
	if req.StartsAt != nil {
		t := req.StartsAt.UTC()
		p.StartsAt = &t
	}
	if req.EndsAt != nil {
		t := req.EndsAt.UTC()
		p.EndsAt = &t
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Offers.Update(ctx, id, p); err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return respondError(c, http.StatusNotFound, "offer not found")
		}
		if errors.Is(err, repository.ErrOfferCodeExists) {
			return respondError(c, http.StatusConflict, "an offer with this code already exists")
		}
		return respondError(c, http.StatusInternalServerError, "could not update offer")
	}
	o, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not load offer")
	}
	return respondData(c, http.StatusOK, o)
}

// DeleteOffer handles DELETE /api/admin/offers/:id.
func (h *AdminHandler) DeleteOffer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Offers.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return respondError(c, http.StatusNotFound, "offer not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not delete offer")
	}
	return respondMessage(c, http.StatusOK, "offer deleted")
}
