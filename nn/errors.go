package nn

import "errors"

// Contract-violation errors. These signal caller bugs in how a layer is
// wired or driven, not recoverable runtime conditions, and are reported
// immediately instead of silently reshaping or broadcasting.
var (
	// ErrInvalidDimension reports construction with a non-positive
	// input or output dimension.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrShapeMismatch reports an input, gradient or update whose shape
	// disagrees with the layer's configured dimensions.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrNoActivation reports a backward-pass operation given a nil or
	// incomplete activation token: the layer was not yet forwarded.
	ErrNoActivation = errors.New("not yet forwarded")
)
