package multiauth

import "context"

// MultiPolicy stitches together an ordered list of sub-policies into a
// single Policy. Identity comes from the first sub-policy that produces a
// userid; principals and remember/forget headers are merged across all of
// them, so one mechanism can grant identity while others only contribute
// groups or clear their own cookies on logout.
//
// The sub-policy list is populated during configuration and must not change
// once requests are being served. All methods are read-only with respect to
// the list and safe for concurrent use, provided the sub-policies are.
type MultiPolicy struct {
	// GroupFinder, when set, validates userids and expands the principal
	// set with the groups it returns.
	GroupFinder GroupFinder

	// LegacyUserIDSelection restores the historical behavior of
	// AuthenticatedUserID: the first claimed userid is returned even when
	// GroupFinder rejects it, instead of falling through to the next
	// sub-policy.
	LegacyUserIDSelection bool

	policies *[]Policy
}

// NewMultiPolicy creates a MultiPolicy over a copy of the given sub-policies.
// The finder may be nil.
func NewMultiPolicy(policies []Policy, finder GroupFinder) *MultiPolicy {
	list := make([]Policy, len(policies))
	copy(list, policies)
	return &MultiPolicy{GroupFinder: finder, policies: &list}
}

// newSharedMultiPolicy creates a MultiPolicy over a shared slice that the
// configurator populates at commit time.
func newSharedMultiPolicy(list *[]Policy, finder GroupFinder) *MultiPolicy {
	return &MultiPolicy{GroupFinder: finder, policies: list}
}

// Policies returns a copy of the current sub-policy list in order.
func (m *MultiPolicy) Policies() []Policy {
	out := make([]Policy, len(*m.policies))
	copy(out, *m.policies)
	return out
}

// AuthenticatedUserID returns the userid from the first sub-policy that
// authenticates the request. When a GroupFinder is set, a userid it rejects
// is skipped and the scan continues with the next sub-policy; set
// LegacyUserIDSelection to return the first claimed userid regardless.
func (m *MultiPolicy) AuthenticatedUserID(ctx context.Context, r *Request) (string, error) {
	for _, p := range *m.policies {
		userid, err := p.AuthenticatedUserID(ctx, r)
		if err != nil {
			return "", err
		}
		if userid == "" {
			continue
		}
		if m.GroupFinder == nil {
			return userid, nil
		}
		if _, ok := m.GroupFinder(ctx, userid); ok {
			return userid, nil
		}
		if m.LegacyUserIDSelection {
			return userid, nil
		}
	}
	return "", nil
}

// UnauthenticatedUserID returns the claimed userid from the first sub-policy
// that finds one. The GroupFinder is not consulted.
func (m *MultiPolicy) UnauthenticatedUserID(ctx context.Context, r *Request) (string, error) {
	for _, p := range *m.policies {
		userid, err := p.UnauthenticatedUserID(ctx, r)
		if err != nil {
			return "", err
		}
		if userid != "" {
			return userid, nil
		}
	}
	return "", nil
}

// EffectivePrincipals returns the union of every sub-policy's principals,
// always including Everyone. When a GroupFinder is set and a claimed userid
// exists, the userid and Authenticated are added along with any groups the
// finder returns.
func (m *MultiPolicy) EffectivePrincipals(ctx context.Context, r *Request) (PrincipalSet, error) {
	principals := NewPrincipalSet(Everyone)
	for _, p := range *m.policies {
		ps, err := p.EffectivePrincipals(ctx, r)
		if err != nil {
			return nil, err
		}
		principals.Union(ps)
	}
	if m.GroupFinder != nil {
		userid, err := m.UnauthenticatedUserID(ctx, r)
		if err != nil {
			return nil, err
		}
		if userid != "" {
			principals.Add(Principal(userid))
			principals.Add(Authenticated)
			if groups, ok := m.GroupFinder(ctx, userid); ok {
				for _, g := range groups {
					principals.Add(g)
				}
			}
		}
	}
	return principals, nil
}

// Remember returns the concatenation of every sub-policy's remember headers
// in list order. No sub-policy is skipped; each gets a chance to set its own
// state.
func (m *MultiPolicy) Remember(ctx context.Context, r *Request, userid string, opts RememberOptions) ([]Header, error) {
	var headers []Header
	for _, p := range *m.policies {
		hs, err := p.Remember(ctx, r, userid, opts)
		if err != nil {
			return nil, err
		}
		headers = append(headers, hs...)
	}
	return headers, nil
}

// Forget returns the concatenation of every sub-policy's forget headers in
// list order.
func (m *MultiPolicy) Forget(ctx context.Context, r *Request) ([]Header, error) {
	var headers []Header
	for _, p := range *m.policies {
		hs, err := p.Forget(ctx, r)
		if err != nil {
			return nil, err
		}
		headers = append(headers, hs...)
	}
	return headers, nil
}

// Ensure MultiPolicy implements Policy
var _ Policy = (*MultiPolicy)(nil)
