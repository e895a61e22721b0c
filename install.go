package multiauth

// Install wires a MultiPolicy into the configurator from its settings.
//
// The composite policy is installed immediately, wrapped around a shared
// sub-policy list that is still empty; a deferred action populates the list
// at Commit, once every declared module has had the chance to register.
// Declared policies therefore see their final, declaration-ordered
// positions no matter that resolvers run in reverse internally.
//
// Install also installs a default ACL authorization policy, unless the host
// has already configured one.
//
// Install satisfies IncludeFunc, so a host can equally do
// c.AddInclude("multiauth", multiauth.Install) and include it by name.
func Install(c *Configurator) error {
	reg := c.Registry
	if reg == nil {
		reg = DefaultRegistry
	}
	settings := c.Settings()

	var finder GroupFinder
	if ref := GroupFinderRef(settings); ref != "" {
		f, err := reg.GroupFinder(ref)
		if err != nil {
			return err
		}
		finder = f
	}

	decls, err := ParseSettings(settings)
	if err != nil {
		return err
	}

	// Inclusion side effects happen here; unknown factory references and
	// unknown modules fail before anything is installed.
	resolvers, err := buildResolvers(c, reg, decls)
	if err != nil {
		return err
	}

	// The composite goes in now, around the still-empty shared list. The
	// deferred action below fills the list in place.
	policies := make([]Policy, 0, len(decls))
	multi := newSharedMultiPolicy(&policies, finder)
	c.SetAuthenticationPolicy(multi)

	c.Defer(func() error {
		if err := populate(&policies, resolvers); err != nil {
			return err
		}
		// An included module may have put its own policy in the slot;
		// the composite is the installed policy once the list is final.
		c.SetAuthenticationPolicy(multi)
		return nil
	})

	if c.AuthorizationPolicy() == nil {
		c.SetAuthorizationPolicy(NewACLAuthorizer(nil))
	}
	return nil
}
