package garagedocs

import (
	"errors"
	"fmt"
)

// Sentinel errors for common document generation failure conditions.
var (
	ErrInvalidParam = errors.New("garagedocs: invalid parameter")
	ErrNoPage       = errors.New("garagedocs: no page has been added")
	ErrUnsupported  = errors.New("garagedocs: unsupported operation")
	ErrImage        = errors.New("garagedocs: image cannot be embedded")
	ErrFont         = errors.New("garagedocs: font cannot be loaded")
	ErrLetterhead   = errors.New("garagedocs: letterhead cannot be imported")
)

// DocError represents an error that occurred during a specific document
// operation. It wraps an underlying error and includes the operation name.
type DocError struct {
	Op  string // operation name, e.g. "AddPage", "RegisterImage"
	Err error  // underlying error
}

func (e *DocError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("garagedocs.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("garagedocs.%s: unknown error", e.Op)
}

func (e *DocError) Unwrap() error {
	return e.Err
}

// newDocError creates a new DocError wrapping err with operation context.
func newDocError(op string, err error) *DocError {
	return &DocError{Op: op, Err: err}
}
