package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/nano-feed/backend/internal/models"
	"github.com/anonto42/nano-feed/backend/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// respondError maps a service error kind to an HTTP error
func respondError(err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrAuthorization):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		return echo.NewHTTPError(status, "Internal server error").SetInternal(err)
	}
	return echo.NewHTTPError(status, services.Message(err))
}

// bindAndValidate decodes the request body into req and runs its validate tags
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// getUserIDFromContext returns the authenticated user id, 0 when absent
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

func requireUserID(c echo.Context) (uint, error) {
	id := getUserIDFromContext(c)
	if id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return id, nil
}

func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// pageParams reads page and limit. Missing values take the defaults; values
// that are present but not numbers are rejected.
func pageParams(c echo.Context, defaultLimit int) (int, int, error) {
	page, limit := 1, defaultLimit
	if raw := c.QueryParam("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid page")
		}
		page = v
	}
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		limit = v
	}
	return page, limit, nil
}

func paginationMeta(page, limit int, totalItems int64) echo.Map {
	totalPages := 0
	if limit > 0 {
		totalPages = int((totalItems + int64(limit) - 1) / int64(limit))
	}
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      totalItems,
		"itemsPerPage":    limit,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}

func success(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func successPage(c echo.Context, data interface{}, meta echo.Map) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data, "meta": meta})
}
