package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/inventory-allocator/internal/api/dto"
	"github.com/eshaffer321/inventory-allocator/internal/application/service"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/storage"
)

// Base provides shared functionality for all handlers.
type Base struct {
	svc *service.AllocationService
}

// NewBase creates a new base handler with the given service.
func NewBase(svc *service.AllocationService) *Base {
	return &Base{svc: svc}
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(c *gin.Context, status int, err dto.APIError) {
	c.AbortWithStatusJSON(status, err)
}

// WriteServiceError maps a service error onto a status code and body.
func (b *Base) WriteServiceError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		b.WriteError(c, http.StatusNotFound, dto.NotFoundError(resource))
	case errors.Is(err, service.ErrInvalidRequest):
		b.WriteError(c, http.StatusBadRequest, dto.ValidationError(err.Error()))
	case errors.Is(err, service.ErrHistoryDisabled):
		b.WriteError(c, http.StatusServiceUnavailable, dto.UnavailableError(err.Error()))
	default:
		_ = c.Error(err)
		b.WriteError(c, http.StatusInternalServerError, dto.InternalError())
	}
}

// ParseIntParam parses an integer query parameter with a default value.
func ParseIntParam(c *gin.Context, name string, defaultVal int) int {
	val := c.Query(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseOptionalBoolParam parses a boolean query parameter; nil when absent or invalid.
func ParseOptionalBoolParam(c *gin.Context, name string) *bool {
	val := c.Query(name)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}
	return &parsed
}
