package middleware

import (
	"net/http"

	pnet "gutlog/internal/platform/net"
)

// AuthPort is the seam the ident service implements
type AuthPort interface {
	// Parse returns the authenticated user id from the request or an error
	Parse(r *http.Request) (userID string, err error)
}

// Auth resolves the bearer identity via the port and stashes it on the context.
// A nil port leaves the request unauthenticated and untouched
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			uid, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithUser(r.Context(), uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
