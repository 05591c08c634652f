package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrNotReady     = errors.New("not ready")
	ErrTimeout      = errors.New("operation timed out")
	ErrNoBatch      = errors.New("no collected batch available")
	ErrNoWorksheet  = errors.New("worksheet not found")
	ErrInvalidRange = errors.New("invalid range")
)

// NotReadyError is returned when an operation requires a collaborator
// (browser page, sheets client) that has not been explicitly initialized.
// Recoverable by re-running the setup step; nothing auto-initializes.
type NotReadyError struct {
	Component string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("%s is not ready: initialize it first", e.Component)
}

func (e *NotReadyError) Unwrap() error { return ErrNotReady }

// BackendError wraps failures from the spreadsheet backend with the
// operation that failed.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("sheets backend: %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ExtractError is an isolated failure while parsing one candidate element.
// It is caught inside the extraction engine, logged, and never propagated.
type ExtractError struct {
	Index int
	Field string
	Err   error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract element %d (field=%q): %v", e.Index, e.Field, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// ToolError wraps a failure that prevents a tool call as a whole, carrying
// the tool's name so callers see exactly which operation failed.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }
