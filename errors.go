package multiauth

import "errors"

// Sentinel errors for configuration and authorization.
var (
	// Configuration errors
	ErrFactoryNotFound   = errors.New("multiauth: policy factory not found")
	ErrMissingFactoryRef = errors.New("multiauth: declaration has no factory reference")
	ErrInvalidFactory    = errors.New("multiauth: invalid factory registration")

	// Authorization errors
	ErrForbidden = errors.New("multiauth: access denied")
)
