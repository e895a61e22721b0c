package multiauth

import "context"

// Policy is the capability interface every authentication backend satisfies.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use once
//     configuration is complete.
//   - Userids: an empty string means "no userid"; a non-empty return is an
//     identity claim.
//   - Errors: a non-nil error is an internal failure and is propagated to the
//     caller unchanged. It is not an authentication failure.
type Policy interface {
	// AuthenticatedUserID returns the verified userid for the request,
	// or "" if this policy cannot authenticate it.
	AuthenticatedUserID(ctx context.Context, r *Request) (string, error)

	// UnauthenticatedUserID returns the claimed userid for the request
	// without verifying it, or "" if none is present.
	UnauthenticatedUserID(ctx context.Context, r *Request) (string, error)

	// EffectivePrincipals returns the principals this policy grants the
	// request, whether or not it authenticated the caller.
	EffectivePrincipals(ctx context.Context, r *Request) (PrincipalSet, error)

	// Remember returns headers that record the given userid on the client.
	Remember(ctx context.Context, r *Request, userid string, opts RememberOptions) ([]Header, error)

	// Forget returns headers that clear any remembered state on the client.
	Forget(ctx context.Context, r *Request) ([]Header, error)
}

// Request carries the per-request information policies inspect.
type Request struct {
	// Headers contains HTTP headers (Authorization, Cookie, etc.)
	Headers map[string][]string

	// RemoteAddr is the client network address, host or host:port form.
	RemoteAddr string

	// Metadata contains additional request metadata.
	Metadata map[string]any
}

// GetHeader returns the first value for a header, or empty string.
func (r *Request) GetHeader(key string) string {
	if r.Headers == nil {
		return ""
	}
	values := r.Headers[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Header is a single response header. Order of headers is significant:
// Remember and Forget return them in policy declaration order.
type Header struct {
	Name  string
	Value string
}

// RememberOptions are extra parameters forwarded to each policy's Remember.
// Keys are policy-specific; unknown keys are ignored.
type RememberOptions map[string]string
