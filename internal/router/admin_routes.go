package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cineghar/cineghar-api/internal/config"
	"github.com/cineghar/cineghar-api/internal/handler"
	appmw "github.com/cineghar/cineghar-api/internal/middleware"
	"github.com/cineghar/cineghar-api/internal/model"
)

// RegisterAdmin mounts /api/admin. Every route requires a valid token
// with the admin role.
func RegisterAdmin(e *echo.Echo, cfg config.Config, h *handler.AdminHandler) {
	g := e.Group("/api/admin", appmw.JWTAuth(cfg.JWTSecret), appmw.RequireRole(model.RoleAdmin))

	g.POST("/users", h.CreateUser)
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)
	g.PATCH("/users/:id", h.UpdateUser)
	g.DELETE("/users/:id", h.DeleteUser)

	g.POST("/movies", h.CreateMovie)
	g.GET("/movies", h.ListMovies)
	g.GET("/movies/:id", h.GetMovie)
	g.PATCH("/movies/:id", h.UpdateMovie)
	g.DELETE("/movies/:id", h.DeleteMovie)

	g.POST("/halls", h.CreateHall)
	g.GET("/halls", h.ListHalls)
	g.GET("/halls/:id", h.GetHall)
	g.PATCH("/halls/:id", h.UpdateHall)
	g.DELETE("/halls/:id", h.DeleteHall)

	g.POST("/showtimes", h.CreateShowtime)
	g.GET("/showtimes", h.ListShowtimes)
	g.GET("/showtimes/:id", h.GetShowtime)
	g.PATCH("/showtimes/:id", h.UpdateShowtime)
	g.DELETE("/showtimes/:id", h.DeleteShowtime)

	g.POST("/offers", h.CreateOffer)
	g.GET("/offers", h.ListOffers)
	g.GET("/offers/:id", h.GetOffer)
	g.PATCH("/offers/:id", h.UpdateOffer)
	g.DELETE("/offers/:id", h.DeleteOffer)
}
