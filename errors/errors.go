package errors

import (
	"fmt"
	"net/http"
)

// Error is the structured error type used across the pipeline.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Domain Error Constructors ---

// InvalidMap creates an Error for malformed removal spans.
func InvalidMap(reason string) *Error {
	return &Error{
		Code: ErrCodeInvalidMap, Message: fmt.Sprintf("invalid index map: %s", reason),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
	}
}

// ChainMismatch creates an Error for a map whose parent length does not
// match the chain's current child length.
func ChainMismatch(stage string, wantParentLen, gotParentLen int) *Error {
	return &Error{
		Code: ErrCodeChainMismatch, Message: fmt.Sprintf("stage %q does not compose: chain child length %d, map parent length %d", stage, wantParentLen, gotParentLen),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"stage": stage, "want_parent_len": wantParentLen, "got_parent_len": gotParentLen},
	}
}

// UnknownStage creates an Error for a stage name the chain does not contain.
func UnknownStage(name string) *Error {
	return &Error{
		Code: ErrCodeUnknownStage, Message: fmt.Sprintf("unknown stage %q", name),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"stage": name},
	}
}

// ReleasedStage creates an Error for a read of a discarded stage array.
func ReleasedStage(name string) *Error {
	return &Error{
		Code: ErrCodeReleasedStage, Message: fmt.Sprintf("array of stage %q was released by the retention policy", name),
		HTTPStatus: http.StatusGone, Retryable: false,
		Details: map[string]any{"stage": name},
	}
}

// StageFailed creates an Error for a transform, filter, or detector that
// returned an error mid-run.
func StageFailed(stage string, cause error) *Error {
	return &Error{
		Code: ErrCodeStageFailed, Message: fmt.Sprintf("stage %q failed", stage),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"stage": stage}, Cause: cause,
	}
}

// InvalidInput creates an Error for invalid input.
func InvalidInput(field, reason string) *Error {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &Error{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// NotFound creates an Error for a resource that was not found.
func NotFound(resource, id string) *Error {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &Error{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("the requested %s was not found", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// Internal creates an Error for an unexpected internal failure.
func Internal(cause error) *Error {
	return &Error{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
