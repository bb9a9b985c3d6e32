package data

import "errors"

// Standard errors shared across packages working with font metadata.
var (
	// Criteria validation errors
	ErrInvalidTag       = errors.New("fontgrep: invalid tag")
	ErrInvalidCodepoint = errors.New("fontgrep: invalid codepoint")
	ErrInvalidRange     = errors.New("fontgrep: invalid codepoint range")
	ErrInvalidPattern   = errors.New("fontgrep: invalid name pattern")
)
