// Package pipecanvas provides the state engine for an interactive
// pipeline editor.
package pipecanvas

import (
	"errors"
	"fmt"
)

// Sentinel errors at the editor boundary. The pure model operations
// never fail; unknown ids are silent no-ops by design.
var (
	// ErrUnknownNodeType indicates AddNode was asked for a type tag
	// absent from the registry.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrNodeNotFound indicates a lookup (not a mutation) referenced a
	// missing node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNoValidator indicates Validate was called on an editor
	// constructed without a validator.
	ErrNoValidator = errors.New("no validator configured")

	// ErrValidateFailed wraps any transport, status, or parse failure
	// from the external validator.
	ErrValidateFailed = errors.New("pipeline validation failed")
)

// ValidateError carries detail about a failed validator call.
type ValidateError struct {
	// URL is the endpoint that was called.
	URL string
	// Status is the HTTP status code, or 0 for transport failures.
	Status int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ValidateError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("validate %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("validate %s: %v", e.URL, e.Err)
}

// Unwrap returns ErrValidateFailed so errors.Is works across detail.
func (e *ValidateError) Unwrap() error {
	return ErrValidateFailed
}
