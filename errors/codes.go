package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Index-map and chain construction errors. These indicate a logic bug in a
// collaborator, never a transient condition.
const (
	// ErrCodeInvalidMap indicates malformed or inconsistent removal spans
	// supplied to an index-map builder.
	ErrCodeInvalidMap ErrorCode = "INVALID_MAP"
	// ErrCodeChainMismatch indicates stage lengths that do not compose.
	ErrCodeChainMismatch ErrorCode = "CHAIN_MISMATCH"
	// ErrCodeUnknownStage indicates a stage name absent from the chain.
	ErrCodeUnknownStage ErrorCode = "UNKNOWN_STAGE"
)

// Pipeline execution errors
const (
	// ErrCodeReleasedStage indicates a read of an array already discarded
	// by the retention policy.
	ErrCodeReleasedStage ErrorCode = "RELEASED_STAGE"
	// ErrCodeStageFailed indicates an externally supplied transform,
	// filter, or detector returned an error during execution.
	ErrCodeStageFailed ErrorCode = "STAGE_FAILED"
)

// Input and lookup errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// No pipeline failure is retryable: every code signals either bad input or
// a collaborator bug. The set exists so the API response schema stays
// truthful rather than for any retry loop.
var retryableCodes = map[ErrorCode]bool{}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
