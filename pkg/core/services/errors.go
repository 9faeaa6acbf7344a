package services

import (
	"errors"
	"fmt"
)

// ErrInvalidInput matches any InputError via errors.Is
var ErrInvalidInput = errors.New("invalid schedule input")

// InputError reports a stored record that cannot be handed to the scheduler
type InputError struct {
	Record  string
	ID      string
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid %s: %s %s", e.Record, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid %s %s: %s %s", e.Record, e.ID, e.Field, e.Message)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// RangeError reports a requested date range the service refuses to run
type RangeError struct {
	Start   string
	End     string
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range %s to %s: %s", e.Start, e.End, e.Message)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidInput
}
