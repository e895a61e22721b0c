package policies

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonwraymond/multiauth"
)

// CookieConfig configures the signed cookie session policy.
type CookieConfig struct {
	// Name is the cookie name.
	// Default: "auth_session"
	Name string

	// Secret is the HMAC signing key. Required.
	Secret []byte

	// TTL is the session lifetime.
	// Default: 12 hours.
	TTL time.Duration

	// Path is the cookie path.
	// Default: "/"
	Path string

	// Secure marks the cookie as HTTPS-only.
	Secure bool
}

// CookiePolicy keeps the userid in an HMAC-signed cookie. Remember returns
// a Set-Cookie header carrying the signed session; Forget returns a
// Set-Cookie header that expires it.
type CookiePolicy struct {
	config CookieConfig
}

// NewCookiePolicy creates a cookie policy with defaults applied.
func NewCookiePolicy(config CookieConfig) *CookiePolicy {
	if config.Name == "" {
		config.Name = "auth_session"
	}
	if config.TTL <= 0 {
		config.TTL = 12 * time.Hour
	}
	if config.Path == "" {
		config.Path = "/"
	}
	return &CookiePolicy{config: config}
}

// sign computes the signature over "userid|expiry".
func (p *CookiePolicy) sign(payload string) string {
	mac := hmac.New(sha256.New, p.config.Secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// encode builds the cookie value: base64(userid)|expiry|signature.
func (p *CookiePolicy) encode(userid string, expires time.Time) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(userid)) + "|" +
		strconv.FormatInt(expires.Unix(), 10)
	return payload + "|" + p.sign(payload)
}

// decode parses a cookie value, returning the userid. verify=false skips
// the signature and expiry checks.
func (p *CookiePolicy) decode(value string, verify bool) (string, bool) {
	parts := strings.Split(value, "|")
	if len(parts) != 3 {
		return "", false
	}
	if verify {
		payload := parts[0] + "|" + parts[1]
		if !hmac.Equal([]byte(p.sign(payload)), []byte(parts[2])) {
			return "", false
		}
		expiry, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || time.Now().Unix() >= expiry {
			return "", false
		}
	}
	userid, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", false
	}
	return string(userid), true
}

// cookie extracts the raw session cookie value from the request, or "".
func (p *CookiePolicy) cookie(r *multiauth.Request) string {
	rq := http.Request{Header: http.Header(r.Headers)}
	c, err := rq.Cookie(p.config.Name)
	if err != nil {
		return ""
	}
	return c.Value
}

// AuthenticatedUserID returns the userid from a validly signed, unexpired
// session cookie.
func (p *CookiePolicy) AuthenticatedUserID(_ context.Context, r *multiauth.Request) (string, error) {
	value := p.cookie(r)
	if value == "" {
		return "", nil
	}
	userid, ok := p.decode(value, true)
	if !ok {
		return "", nil
	}
	return userid, nil
}

// UnauthenticatedUserID returns the claimed userid without checking the
// signature.
func (p *CookiePolicy) UnauthenticatedUserID(_ context.Context, r *multiauth.Request) (string, error) {
	value := p.cookie(r)
	if value == "" {
		return "", nil
	}
	userid, ok := p.decode(value, false)
	if !ok {
		return "", nil
	}
	return userid, nil
}

// EffectivePrincipals returns an empty set; session cookies carry identity
// only, group expansion is the group finder's job.
func (p *CookiePolicy) EffectivePrincipals(_ context.Context, _ *multiauth.Request) (multiauth.PrincipalSet, error) {
	return multiauth.NewPrincipalSet(), nil
}

// Remember returns a Set-Cookie header carrying the signed session.
func (p *CookiePolicy) Remember(_ context.Context, _ *multiauth.Request, userid string, _ multiauth.RememberOptions) ([]multiauth.Header, error) {
	if len(p.config.Secret) == 0 {
		return nil, fmt.Errorf("cookie policy %q has no secret", p.config.Name)
	}
	expires := time.Now().Add(p.config.TTL)
	c := http.Cookie{
		Name:     p.config.Name,
		Value:    p.encode(userid, expires),
		Path:     p.config.Path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   p.config.Secure,
	}
	return []multiauth.Header{{Name: "Set-Cookie", Value: c.String()}}, nil
}

// Forget returns a Set-Cookie header that expires the session.
func (p *CookiePolicy) Forget(_ context.Context, _ *multiauth.Request) ([]multiauth.Header, error) {
	c := http.Cookie{
		Name:     p.config.Name,
		Value:    "",
		Path:     p.config.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.config.Secure,
	}
	return []multiauth.Header{{Name: "Set-Cookie", Value: c.String()}}, nil
}

// Ensure CookiePolicy implements Policy
var _ multiauth.Policy = (*CookiePolicy)(nil)
