package multiauth

import "fmt"

// Resolver yields a policy when invoked at commit time. A nil policy means
// the declaration contributed nothing.
type Resolver func() (Policy, error)

// buildResolvers turns ordered declarations into resolvers, one per
// declaration, in declaration order.
//
// Explicit declarations resolve their factory reference immediately, so an
// unknown reference fails here rather than at commit time. Include
// declarations are processed through the configurator right away (matching
// the original semantics, where inclusion side effects such as routes and
// views happen during configuration), yielding a resolver that recovers
// whatever policy the inclusion installed.
func buildResolvers(c *Configurator, reg *Registry, decls []Declaration) ([]Resolver, error) {
	resolvers := make([]Resolver, 0, len(decls))
	for _, d := range decls {
		if d.Include() {
			r, err := includeResolver(c, d.Name)
			if err != nil {
				return nil, err
			}
			resolvers = append(resolvers, r)
			continue
		}
		factory, err := reg.Factory(d.Use)
		if err != nil {
			return nil, fmt.Errorf("policy %q: %w", d.Name, err)
		}
		params := d.Params
		name := d.Name
		resolvers = append(resolvers, func() (Policy, error) {
			p, err := factory(params)
			if err != nil {
				return nil, fmt.Errorf("multiauth: constructing policy %q: %w", name, err)
			}
			return p, nil
		})
	}
	return resolvers, nil
}

// populate invokes the resolvers in reverse declaration order, prepending
// each non-nil result to the shared list so the final list matches
// declaration order. A policy already at the front is not inserted again;
// an inclusion that registered the policy itself must not produce a
// duplicate.
func populate(list *[]Policy, resolvers []Resolver) error {
	for i := len(resolvers) - 1; i >= 0; i-- {
		p, err := resolvers[i]()
		if err != nil {
			return err
		}
		if p == nil {
			continue
		}
		if len(*list) > 0 && (*list)[0] == p {
			continue
		}
		*list = append([]Policy{p}, *list...)
	}
	return nil
}

// PendingConfiguration collects policy declarations for a one-shot build.
// It is the standalone alternative to wiring through a Configurator: collect
// declarations, call Build once, and hand the result to NewMultiPolicy.
type PendingConfiguration struct {
	// Registry resolves factory references. Defaults to DefaultRegistry.
	Registry *Registry

	decls    []Declaration
	prebuilt map[int]Policy
}

// NewPendingConfiguration creates an empty pending configuration.
func NewPendingConfiguration() *PendingConfiguration {
	return &PendingConfiguration{Registry: DefaultRegistry}
}

// Declare appends a declaration.
func (p *PendingConfiguration) Declare(d Declaration) {
	p.decls = append(p.decls, d)
}

// Add appends an already-constructed policy, preserving ordering relative
// to declared ones.
func (p *PendingConfiguration) Add(policy Policy) {
	if p.prebuilt == nil {
		p.prebuilt = make(map[int]Policy)
	}
	p.prebuilt[len(p.decls)] = policy
	p.decls = append(p.decls, Declaration{})
}

// FromSettings appends all declarations parsed from settings.
func (p *PendingConfiguration) FromSettings(s Settings) error {
	decls, err := ParseSettings(s)
	if err != nil {
		return err
	}
	p.decls = append(p.decls, decls...)
	return nil
}

// Build resolves every declaration in one pass and returns the ordered
// policy list. Include-style declarations have no host to include into here
// and contribute nothing. The returned slice is not retained by p.
func (p *PendingConfiguration) Build() ([]Policy, error) {
	reg := p.Registry
	if reg == nil {
		reg = DefaultRegistry
	}
	policies := make([]Policy, 0, len(p.decls))
	for i, d := range p.decls {
		if pre, ok := p.prebuilt[i]; ok {
			policies = append(policies, pre)
			continue
		}
		if d.Include() {
			continue
		}
		policy, err := reg.CreatePolicy(d.Use, d.Params)
		if err != nil {
			return nil, fmt.Errorf("policy %q: %w", d.Name, err)
		}
		policies = append(policies, policy)
	}
	return policies, nil
}
