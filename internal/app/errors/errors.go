package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies application errors. Kinds form a tree rooted at KindApp so
// that a FileSizeExceeded error also matches ErrValidation and ErrApp.
type Kind string

const (
	KindApp                Kind = "app"
	KindConfig             Kind = "config"
	KindValidation         Kind = "validation"
	KindInvalidFileType    Kind = "invalid_file_type"
	KindFileSizeExceeded   Kind = "file_size_exceeded"
	KindFileLengthExceeded Kind = "file_length_exceeded"
	KindTranscription      Kind = "transcription"
	KindAnalysis           Kind = "analysis"
	KindIrrelevantQuestion Kind = "irrelevant_question"
)

var parents = map[Kind]Kind{
	KindConfig:             KindApp,
	KindValidation:         KindApp,
	KindInvalidFileType:    KindValidation,
	KindFileSizeExceeded:   KindValidation,
	KindFileLengthExceeded: KindValidation,
	KindTranscription:      KindApp,
	KindAnalysis:           KindApp,
	KindIrrelevantQuestion: KindAnalysis,
}

// Sentinels for errors.Is checks against a whole branch of the tree.
var (
	ErrApp                = &Error{kind: KindApp}
	ErrConfig             = &Error{kind: KindConfig}
	ErrValidation         = &Error{kind: KindValidation}
	ErrInvalidFileType    = &Error{kind: KindInvalidFileType}
	ErrFileSizeExceeded   = &Error{kind: KindFileSizeExceeded}
	ErrFileLengthExceeded = &Error{kind: KindFileLengthExceeded}
	ErrTranscription      = &Error{kind: KindTranscription}
	ErrAnalysis           = &Error{kind: KindAnalysis}
	ErrIrrelevantQuestion = &Error{kind: KindIrrelevantQuestion}
)

// User-facing messages shared between the controller and the web layer.
const (
	MsgNoTranscript  = "Please process an audio file before requesting analysis."
	MsgEmptyQuestion = "Question cannot be empty."
	MsgUnexpected    = "An unexpected error occurred. Please check the logs."
	MsgIrrelevant    = "The question could not be answered based on the provided audio content."
)

// Error is an application error. Message is safe to show to the user; the
// cause is kept for logs only.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New creates a root application error
func New(message string) *Error {
	return &Error{kind: KindApp, message: message}
}

// Newf creates a new formatted root application error
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with a user-facing message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindApp, message: message, cause: err}
}

// Wrapf wraps an error with a formatted user-facing message
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

func Config(format string, args ...interface{}) *Error {
	return &Error{kind: KindConfig, message: fmt.Sprintf(format, args...)}
}

func Validation(message string) *Error {
	return &Error{kind: KindValidation, message: message}
}

func InvalidFileType(message string) *Error {
	return &Error{kind: KindInvalidFileType, message: message}
}

func FileSizeExceeded(message string) *Error {
	return &Error{kind: KindFileSizeExceeded, message: message}
}

func FileLengthExceeded(message string) *Error {
	return &Error{kind: KindFileLengthExceeded, message: message}
}

func Transcription(message string, cause error) *Error {
	return &Error{kind: KindTranscription, message: message, cause: cause}
}

func Analysis(message string, cause error) *Error {
	return &Error{kind: KindAnalysis, message: message, cause: cause}
}

func IrrelevantQuestion(message string) *Error {
	return &Error{kind: KindIrrelevantQuestion, message: message}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Message returns the text meant for the user, without the cause chain.
func (e *Error) Message() string {
	return e.message
}

func (e *Error) Kind() Kind {
	return e.kind
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is a sentinel for this error's kind or one of its
// ancestors. Non-sentinel targets are compared by kind and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.message != "" {
		return e.kind == t.kind && e.message == t.message
	}
	for k := e.kind; k != ""; k = parents[k] {
		if k == t.kind {
			return true
		}
	}
	return false
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// UserMessage returns the message to show for err. Unknown errors collapse to
// the generic unexpected-error text.
func UserMessage(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.message
	}
	return MsgUnexpected
}

// IsValidationError checks if an error belongs to the validation branch
func IsValidationError(err error) bool {
	return stderrors.Is(err, ErrValidation)
}
