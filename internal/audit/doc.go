// Package audit provides asynchronous audit event dispatch for the session
// identity core.
//
// # Design
//
// Events flow through a buffered channel to a single dispatcher goroutine,
// which forwards them to the configured Sink. Emitting never performs sink
// I/O on the caller's goroutine; with DropIfFull set, a saturated buffer
// drops the event and counts it instead of blocking the session hot path.
//
// # What this package must NOT do
//
//   - Import the root package or any store backend.
//   - Block session operations on sink latency.
package audit
