// Package router wires handlers, middleware and the Echo instance
// together. Each Register* function owns one route group so main stays a
// plain list of constructor calls.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cineghar/cineghar-api/internal/config"
	"github.com/cineghar/cineghar-api/internal/handler"
	appmw "github.com/cineghar/cineghar-api/internal/middleware"
)

// RegisterRoutes mounts routes that need no group or auth.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth mounts /api/auth. The whole group sits behind the token
// bucket so credential endpoints cannot be hammered; /me and /profile
// additionally require a valid session.
func RegisterAuth(e *echo.Echo, cfg config.Config, rdb *redis.Client, h *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password", h.ResetPassword)

	authed := g.Group("", appmw.JWTAuth(cfg.JWTSecret))
	authed.GET("/me", h.Me)
	authed.PUT("/profile", h.UpdateProfile)
}

// RegisterPublic mounts the unauthenticated browse endpoints behind the
// Redis response cache.
func RegisterPublic(e *echo.Echo, rdb *redis.Client, h *handler.PublicHandler) {
	g := e.Group("/api", appmw.NewRedisCache(config.LoadCacheConfig(), rdb))
	g.GET("/movies", h.ListMovies)
	g.GET("/movies/:id", h.GetMovie)
	g.GET("/halls", h.ListHalls)
	g.GET("/showtimes", h.ListShowtimes)
	g.GET("/offers/:code", h.GetOfferByCode)
}

// RegisterPayments mounts the Khalti flow. Initiate needs a session so
// the payment can be attributed; verify is the provider's return
// redirect and carries no cookie guarantees, so it stays open.
func RegisterPayments(e *echo.Echo, cfg config.Config, h *handler.PaymentHandler) {
	g := e.Group("/api/payments")
	g.POST("/initiate", h.InitiatePayment, appmw.JWTAuth(cfg.JWTSecret))
	g.GET("/verify", h.VerifyPayment)
}
