package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeTransport  = "TRANSPORT_ERROR"
	ErrCodeHTTPStatus = "HTTP_STATUS_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeConflict   = "CONFLICT"
	ErrCodeDataShape  = "DATA_SHAPE_ERROR"
	ErrCodeUserInput  = "USER_INPUT_ERROR"
	ErrCodeNoDocument = "NO_DOCUMENT"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// TransportError covers failures where no HTTP response was received.
func TransportError(message string) *AppError {
	return NewAppError(ErrCodeTransport, message, 0)
}

func HTTPStatusError(message string, statusCode int) *AppError {
	switch statusCode {
	case http.StatusNotFound:
		return NotFoundError(message)
	case http.StatusConflict, http.StatusPreconditionFailed:
		return ConflictError(message, statusCode)
	}

	return NewAppError(ErrCodeHTTPStatus, message, statusCode)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func ConflictError(message string, statusCode int) *AppError {
	return NewAppError(ErrCodeConflict, message, statusCode)
}

func DataShapeError(message string) *AppError {
	return NewAppError(ErrCodeDataShape, message, 0)
}

func UserInputError(message string) *AppError {
	return NewAppError(ErrCodeUserInput, message, 0)
}

func NoDocumentError(message string, statusCode int) *AppError {
	return NewAppError(ErrCodeNoDocument, message, statusCode)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, 0)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	appErr, ok := IsAppError(err)

	return ok && appErr.Code == code
}

// UserMessage renders err for a dialog. Unclassified errors never leak their raw text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	appErr, ok := IsAppError(err)
	if !ok {
		return "An unexpected error occurred"
	}

	if appErr.Detail != "" {
		return fmt.Sprintf("%s\n%s", appErr.Message, appErr.Detail)
	}

	return appErr.Message
}
