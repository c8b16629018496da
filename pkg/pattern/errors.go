package pattern

import "errors"

// Sentinel errors for pattern compilation.
var (
	// ErrInvalidPattern indicates malformed or unsupported glob syntax.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrUndeclaredCapture indicates a <name> token missing from the capture list.
	ErrUndeclaredCapture = errors.New("pattern references undeclared capture")
	// ErrCaptureOrder indicates capture names that do not line up with capture tokens.
	ErrCaptureOrder = errors.New("capture names are not positionally consistent with pattern")
	// ErrInvalidMode indicates an unknown match mode.
	ErrInvalidMode = errors.New("invalid match mode")
)
