// Package policies provides built-in authentication policies for multiauth.
//
// Each policy implements multiauth.Policy and registers a configuration
// factory in multiauth.DefaultRegistry, so it can be declared from settings
// with a "use" key.
package policies
