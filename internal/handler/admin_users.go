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
	"github.com/cineghar/cineghar-api/internal/utils"
)

type createUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// CreateUser handles POST /api/admin/users. Unlike self-registration the
// back office picks the role, which is how accounts get promoted to admin.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var msgs []string
	if req.Name == "" {
		msgs = append(msgs, "name is required")
	}
	if !strings.Contains(req.Email, "@") {
		msgs = append(msgs, "a valid email is required")
	}
	if len(req.Password) < 6 {
		msgs = append(msgs, "password must be at least 6 characters")
	}
	if !model.IsRole(req.Role) {
		msgs = append(msgs, "role must be user or admin")
	}
	if len(msgs) > 0 {
		return respondValidation(c, msgs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	id, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return respondError(c, http.StatusConflict, "email already registered")
		}
		return respondError(c, http.StatusInternalServerError, "could not create user")
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not load user")
	}
	return respondData(c, http.StatusCreated, u)
}

// UpdateUser handles PATCH /api/admin/users/:id. Omitted fields stay
// unchanged; a password in the patch is re-hashed before it is stored.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	var msgs []string
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		msgs = append(msgs, "name cannot be empty")
	}
	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		msgs = append(msgs, "a valid email is required")
	}
	if req.Password != nil && len(*req.Password) < 6 {
		msgs = append(msgs, "password must be at least 6 characters")
	}
	if req.Role != nil && !model.IsRole(*req.Role) {
		msgs = append(msgs, "role must be user or admin")
	}
	if len(msgs) > 0 {
		return respondValidation(c, msgs)
	}
	if req.Name == nil && req.Email == nil && req.Password == nil && req.Role == nil {
		return respondValidation(c, []string{"nothing to update"})
	}

	p := repository.UserPatch{Name: req.Name, Email: req.Email, Role: req.Role}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not update user")
		}
		p.PasswordHash = &hash
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Users.Update(ctx, id, p); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, repository.ErrEmailExists):
			return respondError(c, http.StatusConflict, "email already registered")
		}
		return respondError(c, http.StatusInternalServerError, "could not update user")
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not load user")
	}
	return respondData(c, http.StatusOK, u)
}

// ListUsers handles GET /api/admin/users?page=&limit=. Password hashes
// never leave the model's json:"-" fence; the rest of the row is fair
// game for the back office.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, limit := parsePagination(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, total, err := h.Users.List(ctx, page, limit)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not list users")
	}
	return respondList(c, items, "totalUsers", total, page, limit)
}

// GetUser handles GET /api/admin/users/:id.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not load user")
	}
	return respondData(c, http.StatusOK, u)
}

// DeleteUser handles DELETE /api/admin/users/:id. The only hard delete
// in the user lifecycle; an admin cannot delete their own account.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	if uid, err := getUserID(c); err == nil && uid == id {
		return respondError(c, http.StatusConflict, "cannot delete your own account")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not delete user")
	}
	return respondMessage(c, http.StatusOK, "user deleted")
}
