// Package store defines the pluggable session persistence contract and its
// three backends: in-process memory, Redis, and a single-actor bbolt store.
//
// All backends satisfy the same black-box contract: a record is retrievable
// until its TTL elapses, List never returns expired or foreign records, and
// Delete is idempotent. A missing record is reported as (nil, nil), never as
// an error — callers must not be able to distinguish "absent" from "expired".
package store

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps backend transport failures (Redis down, actor RPC
// timeout). Read paths in the lifecycle manager swallow it into "no
// session"; write paths surface it to the caller.
var ErrUnavailable = errors.New("session store unavailable")

// Record is the durable unit of session state. Records are never mutated in
// place: rotation creates a new record and deletes the old one.
type Record struct {
	SessionID  string    `json:"sessionId"`
	CustomerID string    `json:"customerId"`
	UserAgent  string    `json:"userAgent"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Store is the session persistence contract shared by all backends.
// Implementations must be safe for concurrent use across distinct session
// ids; the record TTL is fixed at construction time.
type Store interface {
	// Get returns the record for sessionID, or (nil, nil) when the record
	// is absent or expired.
	Get(ctx context.Context, sessionID string) (*Record, error)

	// Set persists rec under its SessionID and indexes it under its
	// CustomerID for listing.
	Set(ctx context.Context, rec *Record) error

	// Delete removes the record and its customer-index entry. Deleting an
	// absent record is a no-op.
	Delete(ctx context.Context, sessionID string) error

	// List returns all live records belonging to customerID.
	List(ctx context.Context, customerID string) ([]*Record, error)
}
