package policies

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/jonwraymond/multiauth"
)

func init() {
	// Register bearer token policy
	_ = multiauth.DefaultRegistry.RegisterPolicy("token", func(cfg map[string]string) (multiauth.Policy, error) {
		config := TokenConfig{
			Secret:      []byte(cfg["secret"]),
			Issuer:      cfg["issuer"],
			HeaderName:  cfg["header_name"],
			TokenPrefix: cfg["token_prefix"],
			UserIDClaim: cfg["userid_claim"],
			GroupsClaim: cfg["groups_claim"],
		}
		if len(config.Secret) == 0 {
			return nil, fmt.Errorf("token policy: secret is required")
		}
		if ttl := cfg["ttl"]; ttl != "" {
			d, err := time.ParseDuration(ttl)
			if err != nil {
				return nil, fmt.Errorf("token policy: invalid ttl %q: %w", ttl, err)
			}
			config.TTL = d
		}
		return NewTokenPolicy(config), nil
	})

	// Register remote-address policy
	_ = multiauth.DefaultRegistry.RegisterPolicy("ipauth", func(cfg map[string]string) (multiauth.Policy, error) {
		config := IPConfig{UserID: cfg["userid"]}
		for _, s := range strings.Fields(cfg["ipaddrs"]) {
			prefix, err := netip.ParsePrefix(s)
			if err != nil {
				return nil, fmt.Errorf("ipauth policy: invalid prefix %q: %w", s, err)
			}
			config.Prefixes = append(config.Prefixes, prefix)
		}
		for _, p := range strings.Fields(cfg["principals"]) {
			config.Principals = append(config.Principals, multiauth.Principal(p))
		}
		return NewIPPolicy(config), nil
	})

	// Register signed cookie session policy
	_ = multiauth.DefaultRegistry.RegisterPolicy("cookie", func(cfg map[string]string) (multiauth.Policy, error) {
		config := CookieConfig{
			Name:   cfg["name"],
			Secret: []byte(cfg["secret"]),
			Path:   cfg["path"],
			Secure: cfg["secure"] == "true",
		}
		if len(config.Secret) == 0 {
			return nil, fmt.Errorf("cookie policy: secret is required")
		}
		if ttl := cfg["ttl"]; ttl != "" {
			d, err := time.ParseDuration(ttl)
			if err != nil {
				return nil, fmt.Errorf("cookie policy: invalid ttl %q: %w", ttl, err)
			}
			config.TTL = d
		}
		return NewCookiePolicy(config), nil
	})
}
