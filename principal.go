package multiauth

import "sort"

// Principal is an opaque identifier for an authenticated entity or a group
// membership.
type Principal string

// Well-known pseudo-principals.
const (
	// Everyone is granted to every request, authenticated or not.
	Everyone Principal = "system.Everyone"

	// Authenticated is granted when a userid was accepted for the request.
	Authenticated Principal = "system.Authenticated"
)

// PrincipalSet is an unordered set of principals. The zero value is not
// usable; construct with NewPrincipalSet.
type PrincipalSet map[Principal]struct{}

// NewPrincipalSet creates a set containing the given principals.
func NewPrincipalSet(principals ...Principal) PrincipalSet {
	s := make(PrincipalSet, len(principals))
	for _, p := range principals {
		s[p] = struct{}{}
	}
	return s
}

// Add inserts a principal into the set.
func (s PrincipalSet) Add(p Principal) {
	s[p] = struct{}{}
}

// Union inserts every principal from other into the set.
func (s PrincipalSet) Union(other PrincipalSet) {
	for p := range other {
		s[p] = struct{}{}
	}
}

// Has reports whether the set contains the principal.
func (s PrincipalSet) Has(p Principal) bool {
	_, ok := s[p]
	return ok
}

// Slice returns the principals in sorted order. Sorting is for stable
// output only; set membership carries no ordering.
func (s PrincipalSet) Slice() []Principal {
	out := make([]Principal, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
