package policies

import (
	"context"
	"net/netip"

	"github.com/jonwraymond/multiauth"
)

// IPConfig configures the remote-address policy.
type IPConfig struct {
	// Prefixes are the network ranges that match this policy.
	Prefixes []netip.Prefix

	// UserID is the identity granted to matching clients.
	UserID string

	// Principals are extra principals granted to matching clients.
	Principals []multiauth.Principal
}

// IPPolicy grants a fixed userid and principal set to clients connecting
// from configured network ranges. It keeps no client-side state, so
// Remember and Forget return no headers.
type IPPolicy struct {
	config IPConfig
}

// NewIPPolicy creates an IP policy.
func NewIPPolicy(config IPConfig) *IPPolicy {
	return &IPPolicy{config: config}
}

// matches reports whether the request's remote address is in a configured
// range. Addresses that fail to parse never match.
func (p *IPPolicy) matches(r *multiauth.Request) bool {
	addr, err := netip.ParseAddr(r.RemoteAddr)
	if err != nil {
		addrPort, err := netip.ParseAddrPort(r.RemoteAddr)
		if err != nil {
			return false
		}
		addr = addrPort.Addr()
	}
	for _, prefix := range p.config.Prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// AuthenticatedUserID returns the configured userid for matching clients.
// Address possession is the whole credential here.
func (p *IPPolicy) AuthenticatedUserID(_ context.Context, r *multiauth.Request) (string, error) {
	if p.matches(r) {
		return p.config.UserID, nil
	}
	return "", nil
}

// UnauthenticatedUserID returns the configured userid for matching clients.
func (p *IPPolicy) UnauthenticatedUserID(_ context.Context, r *multiauth.Request) (string, error) {
	if p.matches(r) {
		return p.config.UserID, nil
	}
	return "", nil
}

// EffectivePrincipals returns the configured principals for matching clients.
func (p *IPPolicy) EffectivePrincipals(_ context.Context, r *multiauth.Request) (multiauth.PrincipalSet, error) {
	principals := multiauth.NewPrincipalSet()
	if p.matches(r) {
		for _, pr := range p.config.Principals {
			principals.Add(pr)
		}
	}
	return principals, nil
}

// Remember returns no headers; identity follows the network address.
func (p *IPPolicy) Remember(_ context.Context, _ *multiauth.Request, _ string, _ multiauth.RememberOptions) ([]multiauth.Header, error) {
	return nil, nil
}

// Forget returns no headers.
func (p *IPPolicy) Forget(_ context.Context, _ *multiauth.Request) ([]multiauth.Header, error) {
	return nil, nil
}

// Ensure IPPolicy implements Policy
var _ multiauth.Policy = (*IPPolicy)(nil)
