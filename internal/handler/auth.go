package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineghar/cineghar-api/internal/config"
	"github.com/cineghar/cineghar-api/internal/mailer"
	appmw "github.com/cineghar/cineghar-api/internal/middleware"
	"github.com/cineghar/cineghar-api/internal/model"
	"github.com/cineghar/cineghar-api/internal/repository"
	"github.com/cineghar/cineghar-api/internal/utils"
)

// Session cookie lifetime when "remember me" is checked: 30 days. The
// short variant comes from ACCESS_TOKEN_TTL_MIN (1 day in the default
// env). Cookie expiry and JWT expiry always move together so a live
// cookie never carries a dead token.
const rememberTTLMin = 30 * 24 * 60

// UserCookieName holds the JSON-serialized cached profile the frontend
// reads without a round trip. It is advisory; the token cookie is the
// credential.
const UserCookieName = "user"

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Resets ResetStore
	Mail   mailer.Mailer
}

func NewAuthHandler(cfg config.Config, users UserStore, resets ResetStore, mail mailer.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Resets: resets, Mail: mail}
}

// ----- DTOs -----

type registerReq struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginReq struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type forgotReq struct {
	Email string `json:"email"`
}

type resetReq struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type userPart struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Image       *string    `json:"image,omitempty"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, DateOfBirth: u.DateOfBirth, Image: u.ImagePath}
}

type authData struct {
	User    userPart  `json:"user"`
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// ----- cookies -----

// setSessionCookies writes the token and cached-user cookies. The user
// cookie is URL-encoded JSON and readable by page scripts; the token
// cookie is HttpOnly.
func setSessionCookies(c echo.Context, token string, exp time.Time, u userPart) {
	maxAge := int(time.Until(exp).Seconds())
	c.SetCookie(&http.Cookie{
		Name:     appmw.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	userJSON := fmt.Sprintf(`{"id":%d,"name":%q,"email":%q,"role":%q}`, u.ID, u.Name, u.Email, u.Role)
	c.SetCookie(&http.Cookie{
		Name:     UserCookieName,
		Value:    url.QueryEscape(userJSON),
		Path:     "/",
		Expires:  exp,
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookies(c echo.Context) {
	for _, name := range []string{appmw.TokenCookieName, UserCookieName} {
		c.SetCookie(&http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
	}
}

// sessionTTL picks the token/cookie lifetime in minutes.
func (h *AuthHandler) sessionTTL(remember bool) int {
	if remember {
		return rememberTTLMin
	}
	return h.Cfg.AccessTTLMin
}

// ----- endpoints -----

// Register handles POST /api/auth/register: create the user and log them
// in immediately. New accounts always get the plain user role; admins are
// promoted through the back office.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

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
	if req.Password != req.ConfirmPassword {
		msgs = append(msgs, "passwords do not match")
	}
	if len(msgs) > 0 {
		return respondValidation(c, msgs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, model.RoleUser, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return respondError(c, http.StatusConflict, "an account with this email already exists")
		}
		return respondError(c, http.StatusInternalServerError, "could not create account")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, model.RoleUser, h.sessionTTL(false))
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not issue token")
	}
	part := userPart{ID: uid, Name: req.Name, Email: req.Email, Role: model.RoleUser}
	setSessionCookies(c, access.Token, access.Exp, part)

	return respondData(c, http.StatusCreated, authData{User: part, Token: access.Token, Expires: access.Exp})
}

// Login handles POST /api/auth/login. remember_me stretches the session
// from the default day to 30 days.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, http.StatusUnauthorized, "invalid credentials")
		}
		return respondError(c, http.StatusInternalServerError, "login failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return respondError(c, http.StatusUnauthorized, "invalid credentials")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.sessionTTL(req.RememberMe))
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not issue token")
	}
	part := toUserPart(u)
	setSessionCookies(c, access.Token, access.Exp, part)

	return respondData(c, http.StatusOK, authData{User: part, Token: access.Token, Expires: access.Exp})
}

// Logout handles POST /api/auth/logout. Tokens are not tracked server
// side, so logging out is clearing the cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	clearSessionCookies(c)
	return respondMessage(c, http.StatusOK, "logged out")
}

// forgotMessage is returned whether or not the address exists, so the
// endpoint cannot be used to probe for accounts.
const forgotMessage = "if that email is registered, a reset link has been sent"

// ForgotPassword handles POST /api/auth/forgot-password. When the email
// matches an account a single-use reset token is stored (hashed) and the
// raw token is mailed as a link.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return respondError(c, http.StatusBadRequest, "email is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		// Unknown address gets the same answer as a known one.
		return respondMessage(c, http.StatusOK, forgotMessage)
	}

	tok, err := utils.NewResetToken(h.Cfg.ResetTTLMin)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not issue reset token")
	}
	if err := h.Resets.Store(ctx, u.ID, utils.HashResetRaw(tok.Raw), tok.Exp); err != nil {
		return respondError(c, http.StatusInternalServerError, "could not issue reset token")
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(h.Cfg.PublicBaseURL, "/"), tok.Raw)
	if err := h.Mail.SendPasswordReset(u.Email, u.Name, link); err != nil {
		// Delivery problems stay server side; the reply must not change.
		c.Logger().Errorf("forgot-password: send mail failed: %v", err)
	}
	return respondMessage(c, http.StatusOK, forgotMessage)
}

// ResetPassword handles POST /api/auth/reset-password. The token is
// consumed atomically, so redeeming it a second time fails.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	var msgs []string
	if strings.TrimSpace(req.Token) == "" {
		msgs = append(msgs, "token is required")
	}
	if len(req.Password) < 6 {
		msgs = append(msgs, "password must be at least 6 characters")
	}
	if req.Password != req.ConfirmPassword {
		msgs = append(msgs, "passwords do not match")
	}
	if len(msgs) > 0 {
		return respondValidation(c, msgs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Resets.Consume(ctx, utils.HashResetRaw(strings.TrimSpace(req.Token)))
	if err != nil {
		if errors.Is(err, repository.ErrResetInvalid) {
			return respondError(c, http.StatusBadRequest, "reset token is invalid or has expired")
		}
		return respondError(c, http.StatusInternalServerError, "could not reset password")
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not reset password")
	}
	if err := h.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return respondError(c, http.StatusInternalServerError, "could not reset password")
	}
	return respondMessage(c, http.StatusOK, "password updated")
}

// Me handles GET /api/auth/me (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not load profile")
	}
	return respondData(c, http.StatusOK, toUserPart(u))
}

// UpdateProfile handles PUT /api/auth/profile (protected). Accepts form
// fields name and date_of_birth (YYYY-MM-DD) plus an optional multipart
// image; provided fields merge into the profile, absent ones stay put.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	var (
		namePtr *string
		dobPtr  *time.Time
		imgPtr  *string
	)
	if v := strings.TrimSpace(c.FormValue("name")); v != "" {
		namePtr = &v
	}
	if v := strings.TrimSpace(c.FormValue("date_of_birth")); v != "" {
		dob, err := time.Parse("2006-01-02", v)
		if err != nil {
			return respondValidation(c, []string{"date_of_birth must be YYYY-MM-DD"})
		}
		dobPtr = &dob
	}
	if file, err := c.FormFile("image"); err == nil {
		path, err := h.saveUpload(file.Filename, file)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "could not store image")
		}
		imgPtr = &path
	}
	if namePtr == nil && dobPtr == nil && imgPtr == nil {
		return respondValidation(c, []string{"nothing to update"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, namePtr, dobPtr, imgPtr); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondError(c, http.StatusInternalServerError, "could not update profile")
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not load profile")
	}
	return respondData(c, http.StatusOK, toUserPart(u))
}

// saveUpload copies a multipart file under the upload dir with a random
// name and returns the public path stored on the profile.
func (h *AuthHandler) saveUpload(origName string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(h.Cfg.UploadDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), strings.ToLower(filepath.Ext(origName)))
	dst, err := os.Create(filepath.Join(h.Cfg.UploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
