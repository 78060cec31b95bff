package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeNotOwner           = "NOT_OWNER"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError is the JSON body of every failed API response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

type statusInfo struct {
	code           string
	defaultMessage string
}

var statuses = map[int]statusInfo{
	http.StatusBadRequest:          {ErrCodeInvalidInput, "Invalid request"},
	http.StatusUnauthorized:        {ErrCodeUnauthorized, "Authentication required"},
	http.StatusForbidden:           {ErrCodeNotOwner, "You do not own this resource"},
	http.StatusNotFound:            {ErrCodeNotFound, "Resource not found"},
	http.StatusInternalServerError: {ErrCodeInternalError, "Internal server error"},
	http.StatusServiceUnavailable:  {ErrCodeServiceUnavailable, "Service temporarily unavailable"},
}

// New builds the APIError for a status. Unknown statuses are treated as internal errors.
func New(status int, message string) (int, *APIError) {
	info, ok := statuses[status]
	if !ok {
		status = http.StatusInternalServerError
		info = statuses[status]
	}
	if message == "" {
		message = info.defaultMessage
	}
	return status, &APIError{Code: info.code, Message: message}
}

// Respond aborts the request with an error body
func Respond(c *gin.Context, status int, message string) {
	status, body := New(status, message)
	c.AbortWithStatusJSON(status, body)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	Respond(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	Respond(c, http.StatusForbidden, message)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	Respond(c, http.StatusNotFound, message)
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	Respond(c, http.StatusBadRequest, message)
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	Respond(c, http.StatusInternalServerError, message)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	Respond(c, http.StatusServiceUnavailable, message)
}
