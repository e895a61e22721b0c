package policies

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/multiauth"
)

func cookieRequest(t *testing.T, setCookie string) *multiauth.Request {
	t.Helper()
	// Turn the Set-Cookie header around into a Cookie request header.
	cookie, err := http.ParseSetCookie(setCookie)
	if err != nil {
		t.Fatalf("ParseSetCookie() error = %v", err)
	}
	return &multiauth.Request{
		Headers: map[string][]string{"Cookie": {cookie.Name + "=" + cookie.Value}},
	}
}

func TestCookiePolicy_RememberRoundTrip(t *testing.T) {
	policy := NewCookiePolicy(CookieConfig{Secret: []byte("test-secret")})

	headers, err := policy.Remember(context.Background(), &multiauth.Request{}, "alice", nil)
	if err != nil {
		t.Fatalf("Remember() error = %v", err)
	}
	if len(headers) != 1 || headers[0].Name != "Set-Cookie" {
		t.Fatalf("Remember() headers = %v", headers)
	}

	req := cookieRequest(t, headers[0].Value)
	got, err := policy.AuthenticatedUserID(context.Background(), req)
	if err != nil {
		t.Fatalf("AuthenticatedUserID() error = %v", err)
	}
	if got != "alice" {
		t.Errorf("round trip userid = %q, want alice", got)
	}
}

func TestCookiePolicy_RejectsTamperedCookie(t *testing.T) {
	policy := NewCookiePolicy(CookieConfig{Secret: []byte("test-secret")})

	headers, err := policy.Remember(context.Background(), &multiauth.Request{}, "alice", nil)
	if err != nil {
		t.Fatalf("Remember() error = %v", err)
	}

	req := cookieRequest(t, headers[0].Value)
	// Extend the signature so it can no longer match.
	req.Headers["Cookie"][0] += "xx"

	got, err := policy.AuthenticatedUserID(context.Background(), req)
	if err != nil {
		t.Fatalf("AuthenticatedUserID() error = %v", err)
	}
	if got != "" {
		t.Errorf("AuthenticatedUserID() = %q, want empty for tampered cookie", got)
	}
}

func TestCookiePolicy_RejectsWrongSecret(t *testing.T) {
	minter := NewCookiePolicy(CookieConfig{Secret: []byte("one-secret")})
	verifier := NewCookiePolicy(CookieConfig{Secret: []byte("another-secret")})

	headers, err := minter.Remember(context.Background(), &multiauth.Request{}, "alice", nil)
	if err != nil {
		t.Fatalf("Remember() error = %v", err)
	}

	req := cookieRequest(t, headers[0].Value)
	got, _ := verifier.AuthenticatedUserID(context.Background(), req)
	if got != "" {
		t.Errorf("AuthenticatedUserID() = %q, want empty for foreign cookie", got)
	}

	// The unverified claim is still readable.
	claimed, _ := verifier.UnauthenticatedUserID(context.Background(), req)
	if claimed != "alice" {
		t.Errorf("UnauthenticatedUserID() = %q, want alice", claimed)
	}
}

func TestCookiePolicy_RejectsExpiredSession(t *testing.T) {
	policy := NewCookiePolicy(CookieConfig{Secret: []byte("test-secret")})

	// Hand-build a session that expired a minute ago; the signature is
	// valid, only the expiry is stale.
	value := policy.encode("alice", time.Now().Add(-time.Minute))
	req := &multiauth.Request{
		Headers: map[string][]string{"Cookie": {"auth_session=" + value}},
	}

	got, err := policy.AuthenticatedUserID(context.Background(), req)
	if err != nil {
		t.Fatalf("AuthenticatedUserID() error = %v", err)
	}
	if got != "" {
		t.Errorf("AuthenticatedUserID() = %q, want empty for expired session", got)
	}
}

func TestCookiePolicy_Forget(t *testing.T) {
	policy := NewCookiePolicy(CookieConfig{Secret: []byte("test-secret"), Name: "sess"})

	headers, err := policy.Forget(context.Background(), &multiauth.Request{})
	if err != nil {
		t.Fatalf("Forget() error = %v", err)
	}
	if len(headers) != 1 || headers[0].Name != "Set-Cookie" {
		t.Fatalf("Forget() headers = %v", headers)
	}
	if !strings.Contains(headers[0].Value, "sess=") || !strings.Contains(headers[0].Value, "Max-Age=0") {
		t.Errorf("Forget() Set-Cookie = %q, want expiring sess cookie", headers[0].Value)
	}
}

func TestCookiePolicy_RememberRequiresSecret(t *testing.T) {
	policy := NewCookiePolicy(CookieConfig{})

	if _, err := policy.Remember(context.Background(), &multiauth.Request{}, "alice", nil); err == nil {
		t.Error("Remember() error = nil, want missing secret error")
	}
}

func TestCookiePolicy_NoCookie(t *testing.T) {
	policy := NewCookiePolicy(CookieConfig{Secret: []byte("test-secret")})

	got, err := policy.AuthenticatedUserID(context.Background(), &multiauth.Request{})
	if err != nil {
		t.Fatalf("AuthenticatedUserID() error = %v", err)
	}
	if got != "" {
		t.Errorf("AuthenticatedUserID() = %q, want empty", got)
	}
}
