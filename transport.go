package multiauth

import "net/http"

// NewRequest builds a policy Request from an HTTP request.
func NewRequest(r *http.Request) *Request {
	return &Request{
		Headers:    r.Header,
		RemoteAddr: r.RemoteAddr,
	}
}

// Middleware resolves the caller's identity through the given policy and
// attaches the userid and effective principals to the request context,
// where handlers can read them with UserIDFromContext and
// PrincipalsFromContext.
//
// A policy error fails the request with 500; an unauthenticated request
// passes through with only its principals attached.
func Middleware(policy Policy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req := NewRequest(r)

		userid, err := policy.AuthenticatedUserID(ctx, req)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusInternalServerError)
			return
		}
		principals, err := policy.EffectivePrincipals(ctx, req)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusInternalServerError)
			return
		}

		if userid != "" {
			ctx = WithUserID(ctx, userid)
		}
		ctx = WithPrincipals(ctx, principals)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ApplyHeaders writes policy response headers (from Remember or Forget)
// onto an HTTP response, preserving their order.
func ApplyHeaders(w http.ResponseWriter, headers []Header) {
	for _, h := range headers {
		w.Header().Add(h.Name, h.Value)
	}
}
