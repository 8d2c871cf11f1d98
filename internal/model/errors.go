package model

import (
	"errors"
	"fmt"
)

// Error taxonomy for the alignment core. The core never retries and
// never logs: every recoverable condition is a field on an output,
// every unrecoverable one is one of these sentinels, optionally
// wrapped with fmt.Errorf("...: %w", err) by the caller.
var (
	ErrMissingInput              = errors.New("missing input")
	ErrInvalidArtifact           = errors.New("invalid artifact")
	ErrIncompatibleNormalization = errors.New("incompatible normalization version")
	ErrCancelled                 = errors.New("cancelled")
	ErrPronunciationLookupFailed = errors.New("pronunciation lookup failed")
	ErrInternal                  = errors.New("internal alignment error")
)

func wrapInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArtifact}, args...)...)
}
