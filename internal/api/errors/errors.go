package errors

import (
	stderrors "errors"
	"net/http"

	apperrors "voice-analysis-toolkit/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindBadRequest  ErrorKind = "bad_request"
	KindNotFound    ErrorKind = "not_found"
	KindConflict    ErrorKind = "conflict"
	KindUnanswered  ErrorKind = "unanswerable"
	KindUpstream    ErrorKind = "upstream"
	KindInternal    ErrorKind = "internal"
	KindUnavailable ErrorKind = "service_unavailable"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindUnanswered:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{Kind: KindValidation, Message: message, Details: fields}
}

func NewBadRequestError(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

func NewNotFoundError(resource string) *APIError {
	return &APIError{Kind: KindNotFound, Message: resource + " not found"}
}

func NewInternalError(message string) *APIError {
	return &APIError{Kind: KindInternal, Message: message}
}

// FromError converts any error into an APIError. Application errors keep
// their user message; anything else becomes the generic unexpected error.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	appErr, ok := apperrors.As(err)
	if !ok {
		return &APIError{Kind: KindInternal, Message: apperrors.MsgUnexpected}
	}

	out := &APIError{Message: appErr.Message(), Code: string(appErr.Kind())}
	switch {
	case stderrors.Is(err, apperrors.ErrValidation):
		out.Kind = KindValidation
	case stderrors.Is(err, apperrors.ErrIrrelevantQuestion):
		out.Kind = KindUnanswered
	case stderrors.Is(err, apperrors.ErrTranscription), stderrors.Is(err, apperrors.ErrAnalysis):
		out.Kind = KindUpstream
	case appErr.Message() == apperrors.MsgNoTranscript:
		out.Kind = KindConflict
	case appErr.Message() == apperrors.MsgEmptyQuestion:
		out.Kind = KindBadRequest
	default:
		out.Kind = KindInternal
	}
	return out
}
