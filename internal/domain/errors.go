package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports invalid caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// PersistenceError wraps a failure of the remote store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PartialMigrationError is returned when plan generation stops half way.
// Completed lists the steps that already ran and were not undone.
type PartialMigrationError struct {
	Step      string
	Completed []string
	Err       error
}

func (e *PartialMigrationError) Error() string {
	return fmt.Sprintf("plan generation failed at %s after %v: %v", e.Step, e.Completed, e.Err)
}

func (e *PartialMigrationError) Unwrap() error { return e.Err }

// ParseError reports a malformed import document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid project file: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
