package policies

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonwraymond/multiauth"
)

// TokenConfig configures the bearer token policy.
type TokenConfig struct {
	// Secret is the HMAC signing key. Required.
	Secret []byte

	// Issuer is the expected token issuer (iss claim). Optional.
	Issuer string

	// HeaderName is the header containing the token.
	// Default: "Authorization"
	HeaderName string

	// TokenPrefix is the prefix before the token in the header.
	// Default: "Bearer "
	TokenPrefix string

	// UserIDClaim is the claim carrying the userid.
	// Default: "sub"
	UserIDClaim string

	// GroupsClaim is the claim carrying group principals. Optional.
	GroupsClaim string

	// TTL is the lifetime of tokens minted by Remember.
	// Default: 1 hour.
	TTL time.Duration
}

// TokenPolicy authenticates bearer JWTs signed with a shared HMAC secret.
// Remember mints a fresh token for the userid; Forget returns no headers,
// since a stateless token cannot be revoked server-side.
type TokenPolicy struct {
	config TokenConfig
}

// NewTokenPolicy creates a token policy with defaults applied.
func NewTokenPolicy(config TokenConfig) *TokenPolicy {
	if config.HeaderName == "" {
		config.HeaderName = "Authorization"
	}
	if config.TokenPrefix == "" {
		config.TokenPrefix = "Bearer "
	}
	if config.UserIDClaim == "" {
		config.UserIDClaim = "sub"
	}
	if config.TTL <= 0 {
		config.TTL = time.Hour
	}
	return &TokenPolicy{config: config}
}

// token extracts the raw token from the request, or "".
func (p *TokenPolicy) token(r *multiauth.Request) string {
	header := r.GetHeader(p.config.HeaderName)
	token, found := strings.CutPrefix(header, p.config.TokenPrefix)
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

// parse validates the token signature and registered claims.
func (p *TokenPolicy) parse(tokenString string) (jwt.MapClaims, bool) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if p.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.config.Issuer))
	}
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) {
		return p.config.Secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

// AuthenticatedUserID returns the verified userid from the token, or "".
// An invalid or expired token is not an error; this policy just has nothing
// to say about the request.
func (p *TokenPolicy) AuthenticatedUserID(_ context.Context, r *multiauth.Request) (string, error) {
	tokenString := p.token(r)
	if tokenString == "" {
		return "", nil
	}
	claims, ok := p.parse(tokenString)
	if !ok {
		return "", nil
	}
	userid, _ := claims[p.config.UserIDClaim].(string)
	return userid, nil
}

// UnauthenticatedUserID returns the claimed userid without verifying the
// signature.
func (p *TokenPolicy) UnauthenticatedUserID(_ context.Context, r *multiauth.Request) (string, error) {
	tokenString := p.token(r)
	if tokenString == "" {
		return "", nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", nil
	}
	userid, _ := claims[p.config.UserIDClaim].(string)
	return userid, nil
}

// EffectivePrincipals returns the groups claim of a verified token.
func (p *TokenPolicy) EffectivePrincipals(_ context.Context, r *multiauth.Request) (multiauth.PrincipalSet, error) {
	principals := multiauth.NewPrincipalSet()
	if p.config.GroupsClaim == "" {
		return principals, nil
	}
	tokenString := p.token(r)
	if tokenString == "" {
		return principals, nil
	}
	claims, ok := p.parse(tokenString)
	if !ok {
		return principals, nil
	}
	if groups, ok := claims[p.config.GroupsClaim].([]any); ok {
		for _, g := range groups {
			if s, ok := g.(string); ok {
				principals.Add(multiauth.Principal(s))
			}
		}
	}
	return principals, nil
}

// Remember mints a signed token for the userid and returns it as an
// Authorization header.
func (p *TokenPolicy) Remember(_ context.Context, _ *multiauth.Request, userid string, _ multiauth.RememberOptions) ([]multiauth.Header, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		p.config.UserIDClaim: userid,
		"iat":                now.Unix(),
		"exp":                now.Add(p.config.TTL).Unix(),
	}
	if p.config.Issuer != "" {
		claims["iss"] = p.config.Issuer
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.config.Secret)
	if err != nil {
		return nil, err
	}
	return []multiauth.Header{{Name: p.config.HeaderName, Value: p.config.TokenPrefix + signed}}, nil
}

// Forget returns no headers; bearer tokens expire on their own.
func (p *TokenPolicy) Forget(_ context.Context, _ *multiauth.Request) ([]multiauth.Header, error) {
	return nil, nil
}

// Ensure TokenPolicy implements Policy
var _ multiauth.Policy = (*TokenPolicy)(nil)
