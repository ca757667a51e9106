// Package custsession is the session identity core for the storefront
// platform: it issues, rotates, validates, and revokes authenticated
// customer sessions, enforces role-based permissions, protects
// state-changing requests with CSRF tokens, and implements TOTP
// multi-factor enrollment and verification.
//
// The package is designed for concurrent server workloads: Manager methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// custsession is the public surface. It exposes [Manager], [Builder],
// [Config], and value types (Claims, TOTPProvision, MetricsSnapshot).
// Session persistence lives in the store sub-package behind [store.Store];
// the role/permission matrix lives in the permission sub-package; audit
// dispatch lives under internal/ and is never exported directly.
//
// # Security contract
//
// Every ambiguous condition fails closed. A cookie that does not unseal, a
// sealed payload whose session id is absent from the store, a backend
// timeout, an unknown role — all resolve to "no session" or "denied",
// never to a permissive default. Every successful resolution rotates the
// session id, bounding the value of a leaked cookie to a single
// request-response cycle.
package custsession
