package middleware

import (
	"net/http"

	"github.com/commercekit/custsession"
)

// safe methods per RFC 9110 §9.2.1; they never mutate state and are exempt
// from CSRF checks.
func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// CSRF enforces the double-submit cookie scheme on state-changing requests:
// the CSRF header must match the CSRF cookie exactly. Failures are rejected
// with 403.
func CSRF(m *custsession.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if safeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			if !m.ValidateCSRFRequest(r) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
