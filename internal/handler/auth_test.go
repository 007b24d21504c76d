package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cineghar/cineghar-api/internal/config"
	"github.com/cineghar/cineghar-api/internal/handler"
	appmw "github.com/cineghar/cineghar-api/internal/middleware"
	"github.com/cineghar/cineghar-api/internal/model"
	"github.com/cineghar/cineghar-api/internal/utils"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		JWTSecret:     "test-secret",
		AccessTTLMin:  60,
		ResetTTLMin:   30,
		BcryptCost:    4,
		PublicBaseURL: "http://app.local",
		UploadDir:     t.TempDir(),
	}
}

func newAuthHandler(t *testing.T) (*handler.AuthHandler, *mockUserStore, *mockResetStore, *mockMailer) {
	t.Helper()
	users := newMockUserStore()
	resets := newMockResetStore()
	mail := &mockMailer{}
	return handler.NewAuthHandler(testConfig(t), users, resets, mail), users, resets, mail
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestRegisterSuccess(t *testing.T) {
	h, users, _, _ := newAuthHandler(t)
	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name":             "Sita Sharma",
		"email":            "sita@example.com",
		"password":         "hunter22",
		"confirm_password": "hunter22",
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Error("success = false")
	}

	tok := findCookie(rec, appmw.TokenCookieName)
	if tok == nil || tok.Value == "" {
		t.Fatal("token cookie not set")
	}
	if !tok.HttpOnly {
		t.Error("token cookie is not HttpOnly")
	}
	if user := findCookie(rec, handler.UserCookieName); user == nil || user.Value == "" {
		t.Error("user cookie not set")
	}

	u, err := users.GetByEmail(c.Request().Context(), "sita@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if u.Role != model.RoleUser {
		t.Errorf("role = %q, registrations must always get %q", u.Role, model.RoleUser)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, users, _, _ := newAuthHandler(t)
	users.seed(t, "Sita", "sita@example.com", "hunter22", model.RoleUser)

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name":             "Imposter",
		"email":            "sita@example.com",
		"password":         "hunter22",
		"confirm_password": "hunter22",
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	h, _, _, _ := newAuthHandler(t)
	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":            "not-an-email",
		"password":         "abc",
		"confirm_password": "xyz",
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if len(env.Errors) < 3 {
		t.Errorf("errors = %v, expected messages for name, email and both password checks", env.Errors)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, users, _, _ := newAuthHandler(t)
	users.seed(t, "Sita", "sita@example.com", "hunter22", model.RoleUser)

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "sita@example.com",
		"password": "wrong",
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if findCookie(rec, appmw.TokenCookieName) != nil {
		t.Error("token cookie set on failed login")
	}
}

func TestLoginUnknownEmailSameStatus(t *testing.T) {
	h, _, _, _ := newAuthHandler(t)
	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "whatever",
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	// Unknown email and wrong password must be indistinguishable.
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginRememberMeStretchesSession(t *testing.T) {
	h, users, _, _ := newAuthHandler(t)
	users.seed(t, "Sita", "sita@example.com", "hunter22", model.RoleUser)

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":       "sita@example.com",
		"password":    "hunter22",
		"remember_me": true,
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	tok := findCookie(rec, appmw.TokenCookieName)
	if tok == nil {
		t.Fatal("token cookie not set")
	}
	if until := time.Until(tok.Expires); until < 29*24*time.Hour {
		t.Errorf("remember_me cookie expires in %v, want about 30 days", until)
	}
}

func TestLoginDefaultSessionIsShort(t *testing.T) {
	h, users, _, _ := newAuthHandler(t)
	users.seed(t, "Sita", "sita@example.com", "hunter22", model.RoleUser)

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "sita@example.com",
		"password": "hunter22",
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	tok := findCookie(rec, appmw.TokenCookieName)
	if tok == nil {
		t.Fatal("token cookie not set")
	}
	if until := time.Until(tok.Expires); until > 61*time.Minute {
		t.Errorf("default cookie expires in %v, want ACCESS_TOKEN_TTL_MIN (60m)", until)
	}
}

func TestLogoutClearsCookies(t *testing.T) {
	h, _, _, _ := newAuthHandler(t)
	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/logout", nil)
	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	for _, name := range []string{appmw.TokenCookieName, handler.UserCookieName} {
		ck := findCookie(rec, name)
		if ck == nil {
			t.Errorf("%s cookie not touched on logout", name)
			continue
		}
		if ck.MaxAge >= 0 {
			t.Errorf("%s cookie MaxAge = %d, want negative", name, ck.MaxAge)
		}
	}
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	h, users, _, mail := newAuthHandler(t)
	users.seed(t, "Sita", "sita@example.com", "hunter22", model.RoleUser)

	known, knownRec := newJSONContext(t, http.MethodPost, "/api/auth/forgot-password",
		map[string]string{"email": "sita@example.com"})
	if err := h.ForgotPassword(known); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	unknown, unknownRec := newJSONContext(t, http.MethodPost, "/api/auth/forgot-password",
		map[string]string{"email": "ghost@example.com"})
	if err := h.ForgotPassword(unknown); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	if knownRec.Code != http.StatusOK || unknownRec.Code != http.StatusOK {
		t.Fatalf("statuses = %d and %d, both must be 200", knownRec.Code, unknownRec.Code)
	}
	knownEnv, unknownEnv := decodeEnvelope(t, knownRec), decodeEnvelope(t, unknownRec)
	if knownEnv.Message != unknownEnv.Message {
		t.Errorf("responses differ: %q vs %q", knownEnv.Message, unknownEnv.Message)
	}
	if mail.sent != 1 || mail.lastTo != "sita@example.com" {
		t.Errorf("mailer: sent=%d lastTo=%q, want exactly one mail to the known address", mail.sent, mail.lastTo)
	}
	if mail.lastLink == "" {
		t.Error("reset link missing from mail")
	}
}

func TestResetPasswordSingleUse(t *testing.T) {
	h, users, resets, _ := newAuthHandler(t)
	uid := users.seed(t, "Sita", "sita@example.com", "oldpass1", model.RoleUser)

	tok, err := utils.NewResetToken(30)
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if err := resets.Store(context.Background(), uid, utils.HashResetRaw(tok.Raw), tok.Exp); err != nil {
		t.Fatalf("store token: %v", err)
	}

	body := map[string]string{
		"token":            tok.Raw,
		"password":         "newpass1",
		"confirm_password": "newpass1",
	}
	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/reset-password", body)
	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	u, _ := users.GetByID(c.Request().Context(), uid)
	if !utils.VerifyPassword(u.PasswordHash, "newpass1") {
		t.Error("new password does not verify after reset")
	}
	if utils.VerifyPassword(u.PasswordHash, "oldpass1") {
		t.Error("old password still verifies after reset")
	}

	// Redeeming the same token again must fail.
	c2, rec2 := newJSONContext(t, http.MethodPost, "/api/auth/reset-password", body)
	if err := h.ResetPassword(c2); err != nil {
		t.Fatalf("ResetPassword (second): %v", err)
	}
	if rec2.Code != http.StatusBadRequest {
		t.Fatalf("second redemption status = %d, want 400", rec2.Code)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	h, users, resets, _ := newAuthHandler(t)
	uid := users.seed(t, "Sita", "sita@example.com", "oldpass1", model.RoleUser)

	tok, err := utils.NewResetToken(30)
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	_ = resets.Store(context.Background(), uid, utils.HashResetRaw(tok.Raw), time.Now().Add(-time.Minute))

	c, rec := newJSONContext(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"token":            tok.Raw,
		"password":         "newpass1",
		"confirm_password": "newpass1",
	})
	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMe(t *testing.T) {
	h, users, _, _ := newAuthHandler(t)
	uid := users.seed(t, "Sita", "sita@example.com", "hunter22", model.RoleUser)

	c, rec := newJSONContext(t, http.MethodGet, "/api/auth/me", nil)
	c.Set("user_id", float64(uid)) // JWT numbers decode as float64
	if err := h.Me(c); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if body := rec.Body.String(); !strings.Contains(body, `"sita@example.com"`) {
		t.Errorf("profile body missing email: %s", body)
	}
	if body := rec.Body.String(); strings.Contains(body, "password") {
		t.Errorf("profile body leaks password material: %s", body)
	}
}
