package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the wire shape of every error response: a single msg field.
type APIError struct {
	Msg string `json:"msg"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Msg
}

// NewAPIError creates a new APIError
func NewAPIError(msg string) *APIError {
	return &APIError{Msg: msg}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, msg string) {
	if msg == "" {
		msg = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(msg))
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, msg string) {
	if msg == "" {
		msg = "Authorization denied"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(msg))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, msg string) {
	if msg == "" {
		msg = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(msg))
}

// InternalError sends a 500 response. The body is always opaque; internal
// error detail belongs in the server log, never in the response.
func InternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, NewAPIError("Server Error"))
}
