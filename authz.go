package multiauth

import (
	"context"
	"fmt"
)

// Authorizer decides whether a set of principals may perform an action on
// a resource. Authorization is deliberately separate from authentication:
// MultiPolicy only establishes who the caller is and what principals they
// carry.
type Authorizer interface {
	// Permits returns nil when the action is allowed, or an error
	// (matching ErrForbidden) when it is denied.
	Permits(ctx context.Context, principals PrincipalSet, resource, action string) error

	// Name returns a unique identifier for this authorizer.
	Name() string
}

// ACLEntry is a single access rule.
type ACLEntry struct {
	// Principal the rule applies to.
	Principal Principal

	// Resource the rule applies to. "*" matches any resource.
	Resource string

	// Action the rule applies to. "*" matches any action.
	Action string

	// Allow grants the action; false denies it.
	Allow bool
}

// ACLAuthorizer is the default authorization policy: rules are evaluated in
// order and the first entry matching any of the request's principals wins.
// No matching entry means denial.
type ACLAuthorizer struct {
	entries []ACLEntry
}

// NewACLAuthorizer creates an authorizer over the given rules. A nil or
// empty rule list denies everything.
func NewACLAuthorizer(entries []ACLEntry) *ACLAuthorizer {
	return &ACLAuthorizer{entries: entries}
}

// Name returns "acl".
func (a *ACLAuthorizer) Name() string {
	return "acl"
}

// Permits evaluates the ACL for the request.
func (a *ACLAuthorizer) Permits(_ context.Context, principals PrincipalSet, resource, action string) error {
	for _, e := range a.entries {
		if !principals.Has(e.Principal) {
			continue
		}
		if e.Resource != "*" && e.Resource != resource {
			continue
		}
		if e.Action != "*" && e.Action != action {
			continue
		}
		if e.Allow {
			return nil
		}
		return fmt.Errorf("%w: resource=%q action=%q", ErrForbidden, resource, action)
	}
	return fmt.Errorf("%w: resource=%q action=%q", ErrForbidden, resource, action)
}

// Ensure ACLAuthorizer implements Authorizer
var _ Authorizer = (*ACLAuthorizer)(nil)
