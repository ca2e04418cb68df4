package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ledger and its collaborators. Handlers map these to
// HTTP statuses with errors.Is / errors.As; nothing in the core inspects
// error strings.
var (
	// ErrPositionNotFound signals a sell (or lookup) against a symbol the
	// user holds no position in.
	ErrPositionNotFound = errors.New("position not found")

	// ErrUserNotFound signals a lookup for an unknown user.
	ErrUserNotFound = errors.New("user not found")

	// ErrPriceUnavailable signals that the quote source could not supply a
	// price. The portfolio view absorbs it (falling back to the average
	// price); it never crosses the engine boundary as a failure.
	ErrPriceUnavailable = errors.New("price unavailable")
)

// ValidationError rejects bad caller input (non-positive quantity or price,
// empty or malformed symbol). Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientSharesError rejects a sell for more shares than are held. It
// carries the figures so the caller can correct the request; the stored
// position is left untouched.
type InsufficientSharesError struct {
	Symbol    string
	Requested int64
	Available int64
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares of %s: requested %d, available %d",
		e.Symbol, e.Requested, e.Available)
}

// StorageError wraps a failure of the position store. Ledger correctness
// depends on durable writes landing, so store failures are always surfaced,
// never swallowed. A mutating call that failed with a StorageError is NOT
// safe to blindly retry: the caller cannot know whether the write committed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
