package response

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// StatusSuccess is merged into every successful object response.
const StatusSuccess = "success"

// ErrorBody is the error response format.
type ErrorBody struct {
	Error string `json:"error"`
}

// AppError represents a structured application error with HTTP status and error code.
type AppError struct {
	HTTPStatus int    // HTTP status code (e.g. 400, 404, 500)
	Code       string // Taxonomy code (e.g. "permission-denied")
	Message    string // Human-readable error message
}

func (e *AppError) Error() string {
	return e.Message
}

// Taxonomy codes
const (
	CodeInvalidArgument  = "invalid-argument"
	CodeUnauthenticated  = "unauthenticated"
	CodePermissionDenied = "permission-denied"
	CodeNotFound         = "not-found"
	CodeConflict         = "conflict"
	CodeInternal         = "internal"
)

// Pre-defined error constructors

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Code: CodeInvalidArgument, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Code: CodeUnauthenticated, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Code: CodePermissionDenied, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Code: CodeConflict, Message: msg}
}

func NewServerError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Code: CodeInternal, Message: msg}
}

// IsCode reports whether err is an *AppError carrying code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// --- Gin response helpers ---

// Success sends a 200 OK response with the result fields and status "success".
func Success(c *gin.Context, result gin.H) {
	c.JSON(http.StatusOK, withStatus(result))
}

// Created sends a 201 Created response with the result fields and status "success".
func Created(c *gin.Context, result gin.H) {
	c.JSON(http.StatusCreated, withStatus(result))
}

// Data sends a 200 OK response with v serialized as-is.
func Data(c *gin.Context, v interface{}) {
	c.JSON(http.StatusOK, v)
}

// List sends a 200 OK response with a bare JSON array. A nil slice is sent as [].
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

func withStatus(result gin.H) gin.H {
	body := gin.H{}
	for k, v := range result {
		body[k] = v
	}
	body["status"] = StatusSuccess
	return body
}

// Error sends an error response. If err is an *AppError, its status is used;
// otherwise a generic 500 internal server error is returned and the error is
// reported to Sentry when enabled.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorBody{Error: appErr.Message})
		return
	}
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.CaptureException(err)
	}
	c.Error(err) //nolint:errcheck
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: err.Error()})
}

// Convenience error response functions

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, ErrorBody{Error: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, ErrorBody{Error: msg})
}
