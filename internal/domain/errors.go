// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of
// infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services and adapters can return.
var (
	// ErrSimulatorStopped is returned when an operation requires a running
	// simulation loop.
	ErrSimulatorStopped = errors.New("simulator is not running")

	// ErrSimulatorRunning is returned when Start is called on a simulator
	// that is already running.
	ErrSimulatorRunning = errors.New("simulator already running")

	// ErrShutdownTimeout is returned when the simulation goroutine does not
	// exit within the bounded shutdown wait.
	ErrShutdownTimeout = errors.New("simulation loop did not stop in time")

	// ErrNoSourceOpen is returned when playback is requested with no audio
	// source open.
	ErrNoSourceOpen = errors.New("no audio source open")

	// ErrSourceRunning is returned when Open is called while a source is
	// still streaming.
	ErrSourceRunning = errors.New("audio source already running")

	// ErrUnsupportedFormat is returned when an audio file format is not
	// supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrFileNotFound is returned when a file does not exist.
	ErrFileNotFound = errors.New("file not found")
)

// SourceError represents an error from the audio spectrum source.
// This wraps low-level decoder and playback errors with additional context.
type SourceError struct {
	Op      string // Operation that failed (e.g., "open", "decode", "play")
	Path    string // File path (if applicable)
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("source %s failed for '%s': %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("source %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(op, path, message string, err error) *SourceError {
	return &SourceError{
		Op:      op,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string      // Field that failed validation
	Value   interface{} // Value that failed validation
	Message string      // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
