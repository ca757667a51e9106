// Package middleware adapts the session identity core to net/http handler
// chains: permission guarding with claims injection, and double-submit CSRF
// enforcement for state-changing requests.
package middleware
