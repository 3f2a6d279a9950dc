package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AppError is an error with an HTTP status and client-facing messages
type AppError struct {
	Status     int
	Message    string
	Validation []string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode reports the HTTP status for the error
func (e *AppError) StatusCode() int {
	return e.Status
}

// Messages returns what the client sees
func (e *AppError) Messages() []string {
	if len(e.Validation) > 0 {
		return e.Validation
	}
	return []string{e.Message}
}

// Wrap attaches the underlying cause without exposing it to the client
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

func New(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

// Forbidden reports a permission failure. Clients expect 401 for these.
func Forbidden(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message)
}

// Validation aggregates every field violation into one 400
func Validation(messages []string) *AppError {
	return &AppError{
		Status:     http.StatusBadRequest,
		Message:    "Validation failed",
		Validation: messages,
	}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Messages []string `json:"messages"`
}

// HTTPErrorHandler renders errors as {"messages": [...]} and logs them
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, messages := resolve(err)

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		}
		if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", fields...)
		} else {
			log.Warn("Request rejected", fields...)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, ErrorResponse{Messages: messages})
		}
		if writeErr != nil {
			log.Error("Failed to write error response", zap.Error(writeErr))
		}
	}
}

func resolve(err error) (int, []string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Messages()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Internal != nil {
			var inner *AppError
			if errors.As(httpErr.Internal, &inner) {
				return inner.Status, inner.Messages()
			}
		}
		return httpErr.Code, []string{fmt.Sprint(httpErr.Message)}
	}

	// driver and store errors stay in the log
	return http.StatusInternalServerError, []string{http.StatusText(http.StatusInternalServerError)}
}
