package cycle

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotPopulated means a stage read a store key its predecessor never wrote.
	ErrNotPopulated = errors.New("store entry not populated")
	// ErrStoreCorrupted means a store entry held an unexpected type.
	ErrStoreCorrupted = errors.New("store entry corrupted")
	// ErrCycleCancelled marks a cycle stopped between stages.
	ErrCycleCancelled = errors.New("cycle cancelled")
)

// StageError wraps a structural stage failure with the stage that raised it.
// Data-quality conditions never become StageErrors; they degrade into cycle
// warnings inside the stages.
type StageError struct {
	Stage string
	Cause error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *StageError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *StageError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// corruptionError builds a StoreCorruption error for a store key.
func corruptionError(key string, value any) error {
	return fmt.Errorf("key %q holds %T: %w", key, value, ErrStoreCorrupted)
}
