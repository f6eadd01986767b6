// Package handler exposes the HTTP API. Each handler owns one resource,
// binds and validates the request, delegates to its service, and maps
// service errors onto the response envelope.
package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/homestash/internal/middleware"
	"github.com/homestash/internal/service"
	"github.com/homestash/pkg/response"
)

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parseOptionalUint reads an optional positive integer query parameter
func parseOptionalUint(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		response.BadRequest(c, "invalid "+name)
		return nil, false
	}
	u := uint(v)
	return &u, true
}

// handleServiceError maps the service error taxonomy onto HTTP responses.
// Anything unrecognized is a 500 with a generic message; the cause goes
// to the log, not the client.
func handleServiceError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		response.BadRequest(c, validationErr.Reason)
		return
	}

	var notFoundErr *service.NotFoundError
	if errors.As(err, &notFoundErr) {
		response.NotFound(c, notFoundErr.Error())
		return
	}

	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		response.Conflict(c, conflictErr.Message, conflictErr.Kind, conflictErr.Count)
		return
	}

	var depErr *service.DependencyError
	if errors.As(err, &depErr) {
		response.DependencyFailure(c, depErr.Error())
		return
	}

	middleware.LogError("unhandled service error: %v", err)
	response.InternalError(c, "internal server error")
}
