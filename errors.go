package fontgrep

import "errors"

// Standard errors returned by the scan coordinator.
var (
	// Mode selection errors
	ErrNoStore          = errors.New("fontgrep: no cache store configured")
	ErrQueryUnsupported = errors.New("fontgrep: store does not support planned queries")
	ErrNoExtractor      = errors.New("fontgrep: no extractor configured")

	// Input errors
	ErrNoCriteria = errors.New("fontgrep: criteria must not be nil")
	ErrNoSink     = errors.New("fontgrep: result sink must not be nil")
)
