// Package permission implements the role/permission matrix consulted by the
// session guard.
//
// # Design
//
// The matrix is loaded once at boot from a typed [Config] and validated
// eagerly: a role granting an unregistered permission is a construction
// error, never a silent allow. After boot the only sanctioned mutation is
// [Matrix.Extend], which appends role names to the read- and write-eligible
// sets; extension is additive and idempotent, nothing is ever removed.
//
// # What this package must NOT do
//
//   - Throw on unknown input: lookups against unknown roles or permissions
//     always evaluate to a denied result.
//   - Import the root package or any store backend.
package permission
