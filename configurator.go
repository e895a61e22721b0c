package multiauth

import "fmt"

// IncludeFunc is the entry point of an includable module. Modules install
// routes, policies, or other configuration against the configurator.
type IncludeFunc func(c *Configurator) error

type actionKind int

const (
	actionGeneric actionKind = iota
	actionAuthnPolicy
)

type deferredAction struct {
	kind actionKind
	run  func() error
}

// Configurator is a minimal phased-commit configuration host. Declarations
// and inclusions happen first; deferred actions execute when Commit runs.
// Configuration is a single-threaded, once-per-process phase: Configurator
// performs no locking, and no requests may be served before Commit returns.
type Configurator struct {
	// Registry resolves factory and group finder references for Install.
	// Defaults to DefaultRegistry.
	Registry *Registry

	settings Settings
	includes map[string]IncludeFunc
	included map[string]bool
	actions  []deferredAction

	authn Policy
	authz Authorizer
}

// NewConfigurator creates a configurator over the given settings.
func NewConfigurator(settings Settings) *Configurator {
	if settings == nil {
		settings = Settings{}
	}
	return &Configurator{
		Registry: DefaultRegistry,
		settings: settings,
		includes: make(map[string]IncludeFunc),
		included: make(map[string]bool),
	}
}

// Settings returns the configuration settings.
func (c *Configurator) Settings() Settings {
	return c.settings
}

// AddInclude registers a module under a name so Include can run it.
func (c *Configurator) AddInclude(name string, fn IncludeFunc) {
	c.includes[name] = fn
}

// Include runs the named module's configuration. Each module runs at most
// once; a second Include of the same name is a no-op. An unknown module
// name is a configuration error.
func (c *Configurator) Include(name string) error {
	fn, ok := c.includes[name]
	if !ok {
		return fmt.Errorf("multiauth: unknown include module %q", name)
	}
	if c.included[name] {
		return nil
	}
	c.included[name] = true
	return fn(c)
}

// SetAuthenticationPolicy installs the authentication policy immediately.
func (c *Configurator) SetAuthenticationPolicy(p Policy) {
	c.authn = p
}

// AuthenticationPolicy returns the installed authentication policy, or nil.
func (c *Configurator) AuthenticationPolicy() Policy {
	return c.authn
}

// SetAuthorizationPolicy installs the authorization policy.
func (c *Configurator) SetAuthorizationPolicy(a Authorizer) {
	c.authz = a
}

// AuthorizationPolicy returns the installed authorization policy, or nil.
func (c *Configurator) AuthorizationPolicy() Authorizer {
	return c.authz
}

// Defer schedules an action to run at Commit, after all configuration has
// been declared.
func (c *Configurator) Defer(run func() error) {
	c.actions = append(c.actions, deferredAction{kind: actionGeneric, run: run})
}

// DeferAuthenticationPolicy schedules an action that installs an
// authentication policy at Commit. The tag lets the include shim recover
// the policy a module intends to register without running it early.
func (c *Configurator) DeferAuthenticationPolicy(install func() error) {
	c.actions = append(c.actions, deferredAction{kind: actionAuthnPolicy, run: install})
}

// takePolicyAction removes and returns the most recently scheduled
// install-a-policy action, if any.
func (c *Configurator) takePolicyAction() (func() error, bool) {
	for i := len(c.actions) - 1; i >= 0; i-- {
		if c.actions[i].kind != actionAuthnPolicy {
			continue
		}
		run := c.actions[i].run
		c.actions = append(c.actions[:i], c.actions[i+1:]...)
		return run, true
	}
	return nil, false
}

// Commit executes all deferred actions in the order they were scheduled.
// The first failing action aborts the commit; serving must not begin after
// a failed commit.
func (c *Configurator) Commit() error {
	actions := c.actions
	c.actions = nil
	for _, a := range actions {
		if err := a.run(); err != nil {
			return err
		}
	}
	return nil
}
