package multiauth

import (
	"fmt"
	"strings"
)

// Settings is the flat key/value configuration surface.
//
// Recognized keys:
//
//	multiauth.policies                 whitespace-separated ordered policy names
//	multiauth.policy.<name>.use        factory reference for an explicit declaration
//	multiauth.policy.<name>.<param>    string parameter forwarded to the factory
//	multiauth.groupfinder              reference to the optional group finder
//
// A name listed in multiauth.policies with no multiauth.policy.<name>.* keys
// is an include-style declaration: the name refers to an includable module
// that installs its own policy.
type Settings map[string]string

// Setting keys.
const (
	PoliciesKey    = "multiauth.policies"
	PolicyPrefix   = "multiauth.policy."
	GroupFinderKey = "multiauth.groupfinder"

	// legacyGroupFinderKey is the historical spelling, still honored.
	legacyGroupFinderKey = "multiauth.policy.groupfinder"
)

// Declaration is one parsed policy slot. Use == "" marks an include-style
// declaration, where Name is itself the module to include.
type Declaration struct {
	Name   string
	Use    string
	Params map[string]string
}

// Include reports whether this is an include-style declaration.
func (d Declaration) Include() bool {
	return d.Use == ""
}

// ParseSettings extracts the ordered policy declarations from settings.
// A declaration that has parameters but no "use" key is malformed and
// fails parsing.
func ParseSettings(s Settings) ([]Declaration, error) {
	// Gather all multiauth.policy.<name>.<param> values, keyed by name.
	params := make(map[string]map[string]string)
	for key, value := range s {
		if key == legacyGroupFinderKey {
			continue
		}
		rest, ok := strings.CutPrefix(key, PolicyPrefix)
		if !ok {
			continue
		}
		name, param, ok := strings.Cut(rest, ".")
		if !ok {
			continue
		}
		if params[name] == nil {
			params[name] = make(map[string]string)
		}
		params[name][param] = value
	}

	names := strings.Fields(s[PoliciesKey])
	decls := make([]Declaration, 0, len(names))
	for _, name := range names {
		definition, ok := params[name]
		if !ok {
			decls = append(decls, Declaration{Name: name})
			continue
		}
		use, ok := definition["use"]
		if !ok || use == "" {
			return nil, fmt.Errorf("%w: policy %q", ErrMissingFactoryRef, name)
		}
		kwargs := make(map[string]string, len(definition)-1)
		for k, v := range definition {
			if k != "use" {
				kwargs[k] = v
			}
		}
		decls = append(decls, Declaration{Name: name, Use: use, Params: kwargs})
	}
	return decls, nil
}

// GroupFinderRef returns the configured group finder reference, or "".
func GroupFinderRef(s Settings) string {
	if ref := s[GroupFinderKey]; ref != "" {
		return ref
	}
	return s[legacyGroupFinderKey]
}
