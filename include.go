package multiauth

// includeResolver builds a resolver for an include-style declaration: the
// named module is included and whatever authentication policy that
// inclusion installed is recovered, without the module exposing any special
// extension point.
//
// This is a compatibility shim for modules that only self-register. New
// backends should register a PolicyFactory instead and be declared with a
// "use" key.
//
// The recovery runs in three steps:
//  1. snapshot the installed policy, then perform the inclusion;
//  2. if a different policy is installed afterwards, the inclusion
//     registered it synchronously: resolve to that policy;
//  3. otherwise, take over the most recent pending install-a-policy action,
//     resolving by executing it and reading the slot back.
//
// A module that did neither resolves to nothing. That is deliberate: a
// module may legitimately be included only for its routes or views.
func includeResolver(c *Configurator, module string) (Resolver, error) {
	prior := c.AuthenticationPolicy()
	if err := c.Include(module); err != nil {
		return nil, err
	}

	if policy := c.AuthenticationPolicy(); policy != nil && policy != prior {
		return func() (Policy, error) { return policy, nil }, nil
	}

	if install, ok := c.takePolicyAction(); ok {
		return func() (Policy, error) {
			if err := install(); err != nil {
				return nil, err
			}
			return c.AuthenticationPolicy(), nil
		}, nil
	}

	return func() (Policy, error) { return nil, nil }, nil
}
