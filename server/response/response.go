package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the envelope shared by every endpoint: successes carry
// success=true plus payload fields, failures carry success=false and a
// human-readable error string. No stack traces or internal paths leak
// through the error field on rejection paths.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	File    interface{} `json:"file,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// --- Error helpers ---

// Fail returns an error response with the given status code.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Response{Success: false, Error: message})
}

// BadRequest returns a 400 Bad Request error response
func BadRequest(c echo.Context, message string) error {
	return Fail(c, http.StatusBadRequest, message)
}

// Unauthorized returns a 401 Unauthorized error response
func Unauthorized(c echo.Context, message string) error {
	return Fail(c, http.StatusUnauthorized, message)
}

// Forbidden returns a 403 Forbidden error response
func Forbidden(c echo.Context, message string) error {
	return Fail(c, http.StatusForbidden, message)
}

// NotFound returns a 404 Not Found error response
func NotFound(c echo.Context, message string) error {
	return Fail(c, http.StatusNotFound, message)
}

// Conflict returns a 409 Conflict error response
func Conflict(c echo.Context, message string) error {
	return Fail(c, http.StatusConflict, message)
}

// TooManyRequests returns a 429 with a Retry-After hint in the body.
func TooManyRequests(c echo.Context, message string, retryAfterSeconds float64) error {
	return c.JSON(http.StatusTooManyRequests, echo.Map{
		"success":     false,
		"error":       message,
		"retry_after": retryAfterSeconds,
	})
}

// InternalError returns a 500 Internal Server Error response
func InternalError(c echo.Context, message string) error {
	return Fail(c, http.StatusInternalServerError, message)
}

// --- Success helpers ---

// Success returns a 200 OK response with data
func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// SuccessWithFile returns a 200 OK response carrying a stored file's
// public representation.
func SuccessWithFile(c echo.Context, message string, file interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: message, File: file})
}

// Created returns a 201 Created response with message and data
func Created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}
