package handler // handler defines the HTTP handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Every endpoint answers the same envelope: {success, message?, data?}.
// List endpoints add page/limit/totalPages/total<Entity>. The helpers
// below keep the shape in one place.

func respondData(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": true, "message": message})
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

// respondValidation returns the full list of field messages so forms can
// show per-field errors.
func respondValidation(c echo.Context, msgs []string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"success": false,
		"message": "validation failed",
		"errors":  msgs,
	})
}

// respondList wraps one page of results. totalKey is the entity-specific
// counter field ("totalMovies", "totalUsers", ...).
func respondList(c echo.Context, items any, totalKey string, total int64, page, limit int) error {
	totalPages := int64(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       items,
		"page":       page,
		"limit":      limit,
		"totalPages": totalPages,
		totalKey:     total,
	})
}

// parsePagination reads ?page= and ?limit= with defaults and caps.
func parsePagination(c echo.Context) (page, limit int) {
	page, limit = 1, 10
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// parseID parses a numeric :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// getUserID extracts the user_id claim JWTAuth stored in context and
// converts it to uint64. JWT numbers decode as float64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
