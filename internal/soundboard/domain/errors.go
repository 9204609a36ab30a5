package domain

import "fmt"

// ValidationError is a local, user-visible input error. State is never
// changed when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// SoundNotFoundError indicates no sound with the given name exists.
type SoundNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *SoundNotFoundError) Error() string {
	return fmt.Sprintf("sound not found: %q", e.Name)
}

// PersistenceError indicates the store could not be read or written.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// InitializationError indicates the store could not be opened at all.
type InitializationError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *InitializationError) Error() string {
	return fmt.Sprintf("cannot open sound store %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitializationError) Unwrap() error {
	return e.Err
}
