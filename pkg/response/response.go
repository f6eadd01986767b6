package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the standard API response structure
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// Error sends an error response
func Error(c *gin.Context, statusCode int, code int, message string) {
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest sends a 400 error response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, -1, message)
}

// Unauthorized sends a 401 error response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, -1001, message)
}

// Forbidden sends a 403 error response
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, -1002, message)
}

// NotFound sends a 404 error response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, -1003, message)
}

// InternalError sends a 500 error response
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, -1, message)
}

// ConflictDetail carries the blocking count and kind so the caller can
// resolve a rejected operation without guessing.
type ConflictDetail struct {
	Kind  string `json:"kind"`
	Count int64  `json:"count,omitempty"`
}

// Conflict sends a 409 error response with structured blocking detail
func Conflict(c *gin.Context, message, kind string, count int64) {
	c.JSON(http.StatusConflict, Response{
		Code:    -1004,
		Message: message,
		Data:    ConflictDetail{Kind: kind, Count: count},
	})
}

// DependencyFailure sends a 502 error response for failed external oracles,
// distinct from internal errors so the caller can retry with reduced input
func DependencyFailure(c *gin.Context, message string) {
	Error(c, http.StatusBadGateway, -1005, message)
}
