package render

import (
	"errors"
	"fmt"
)

// ProtocolError represents a violation of the provider contract detected at
// runtime. Protocol errors are never retried and never silently coerced;
// they indicate a bug in the calling code, surfaced as a constructed error
// value rather than a corrupted render.
type ProtocolError struct {
	// Code identifies the violation category.
	Code ProtocolErrorCode

	// Message is a human-readable description.
	Message string
}

// ProtocolErrorCode categorizes protocol errors.
type ProtocolErrorCode string

const (
	// ErrCodeModeConflict indicates a content provider driven in polling
	// mode received a pushing-mode call before completing, or vice versa.
	// Whichever of Status/RenderAndResolve is called first fixes the mode
	// for the provider's entire lifetime.
	ErrCodeModeConflict ProtocolErrorCode = "MODE_CONFLICT"
)

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsModeConflict returns true if the error is a polling/pushing mode
// conflict. Uses errors.As to handle wrapped errors.
func IsModeConflict(err error) bool {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeModeConflict
	}
	return false
}

func newModeConflictError(fixed, requested string) *ProtocolError {
	return &ProtocolError{
		Code: ErrCodeModeConflict,
		Message: fmt.Sprintf(
			"provider is resolving in %s mode; %s-mode calls are not allowed until it completes",
			fixed, requested),
	}
}
