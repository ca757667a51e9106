package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	actorRecordPrefix = "session:"
	actorIndexPrefix  = "customer:"

	defaultRPCTimeout = 2 * time.Second
)

var actorBucket = []byte("sessions")

// actorRequest is the JSON envelope accepted by the actor. Exactly one
// operation is encoded per request.
type actorRequest struct {
	Op         string       `json:"op"` // get | set | delete | list
	SessionID  string       `json:"sessionId,omitempty"`
	CustomerID string       `json:"customerId,omitempty"`
	Record     *actorRecord `json:"record,omitempty"`
}

// actorResponse is the JSON envelope returned by the actor. Ok is false
// only for storage or protocol failures; an absent record is Ok with a nil
// Record.
type actorResponse struct {
	Ok      bool          `json:"ok"`
	Record  *actorRecord  `json:"record,omitempty"`
	Records []actorRecord `json:"records,omitempty"`
}

// actorRecord is the persisted form of a Record. ExpiresAt is explicit
// because bbolt has no native TTL; it is checked on every read.
type actorRecord struct {
	SessionID  string `json:"sessionId"`
	CustomerID string `json:"customerId"`
	UserAgent  string `json:"userAgent"`
	CreatedAt  int64  `json:"createdAt"`
	ExpiresAt  int64  `json:"expiresAt"`
}

func (r *actorRecord) toRecord() *Record {
	return &Record{
		SessionID:  r.SessionID,
		CustomerID: r.CustomerID,
		UserAgent:  r.UserAgent,
		CreatedAt:  time.Unix(r.CreatedAt, 0),
	}
}

type actorCall struct {
	payload []byte
	reply   chan []byte
}

// ActorStore routes every operation for a session namespace through a
// single goroutine (the actor), guaranteeing that operations serialize
// relative to each other even though the underlying storage is a plain
// key-value bucket. Requests and responses cross the actor boundary as
// JSON envelopes.
//
// RPC failures — a full mailbox, a stopped actor, a timeout — degrade to
// "no session" on reads and "not persisted" on writes. Callers cannot
// distinguish a down backend from an absent session, which is the
// fail-closed posture the lifecycle manager relies on.
type ActorStore struct {
	ttl     time.Duration
	timeout time.Duration
	mailbox chan actorCall
	done    chan struct{}

	db *bolt.DB

	now func() time.Time
}

var _ Store = (*ActorStore)(nil)

// NewActorStore starts the actor over the given bbolt database. Records
// expire after ttl; rpcTimeout bounds every call into the actor (zero
// selects a 2 s default).
func NewActorStore(db *bolt.DB, ttl, rpcTimeout time.Duration) (*ActorStore, error) {
	if rpcTimeout <= 0 {
		rpcTimeout = defaultRPCTimeout
	}

	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(actorBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s := &ActorStore{
		ttl:     ttl,
		timeout: rpcTimeout,
		mailbox: make(chan actorCall, 64),
		done:    make(chan struct{}),
		db:      db,
		now:     time.Now,
	}
	go s.run()

	return s, nil
}

// Close stops the actor. In-flight calls complete; subsequent calls degrade
// to the failure results described on ActorStore.
func (s *ActorStore) Close() {
	close(s.done)
}

func (s *ActorStore) run() {
	for {
		select {
		case call := <-s.mailbox:
			call.reply <- s.dispatch(call.payload)
		case <-s.done:
			return
		}
	}
}

// call performs one JSON round trip into the actor. Any failure mode
// (timeout, stopped actor, malformed response) yields (nil, false).
func (s *ActorStore) call(ctx context.Context, req actorRequest) (*actorResponse, bool) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, false
	}

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	c := actorCall{payload: payload, reply: make(chan []byte, 1)}
	select {
	case s.mailbox <- c:
	case <-timer.C:
		return nil, false
	case <-ctx.Done():
		return nil, false
	case <-s.done:
		return nil, false
	}

	select {
	case raw := <-c.reply:
		var resp actorResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, false
		}
		return &resp, true
	case <-timer.C:
		return nil, false
	case <-ctx.Done():
		return nil, false
	case <-s.done:
		return nil, false
	}
}

// Get returns the record for sessionID, or (nil, nil) when absent, expired,
// or the actor is unreachable.
func (s *ActorStore) Get(ctx context.Context, sessionID string) (*Record, error) {
	resp, ok := s.call(ctx, actorRequest{Op: "get", SessionID: sessionID})
	if !ok || !resp.Ok || resp.Record == nil {
		return nil, nil
	}
	return resp.Record.toRecord(), nil
}

// Set persists rec with an explicit expiry stamp.
func (s *ActorStore) Set(ctx context.Context, rec *Record) error {
	ar := &actorRecord{
		SessionID:  rec.SessionID,
		CustomerID: rec.CustomerID,
		UserAgent:  rec.UserAgent,
		CreatedAt:  rec.CreatedAt.Unix(),
		ExpiresAt:  s.now().Add(s.ttl).Unix(),
	}

	resp, ok := s.call(ctx, actorRequest{Op: "set", Record: ar})
	if !ok || !resp.Ok {
		return fmt.Errorf("%w: actor set did not persist", ErrUnavailable)
	}
	return nil
}

// Delete removes the record and its index entry.
func (s *ActorStore) Delete(ctx context.Context, sessionID string) error {
	resp, ok := s.call(ctx, actorRequest{Op: "delete", SessionID: sessionID})
	if !ok || !resp.Ok {
		return fmt.Errorf("%w: actor delete did not persist", ErrUnavailable)
	}
	return nil
}

// List returns live records for customerID; an unreachable actor yields an
// empty slice.
func (s *ActorStore) List(ctx context.Context, customerID string) ([]*Record, error) {
	resp, ok := s.call(ctx, actorRequest{Op: "list", CustomerID: customerID})
	if !ok || !resp.Ok {
		return []*Record{}, nil
	}

	records := make([]*Record, 0, len(resp.Records))
	for i := range resp.Records {
		records = append(records, resp.Records[i].toRecord())
	}
	return records, nil
}

// dispatch runs inside the actor goroutine; it is the only code path that
// touches the bucket, so operations need no further locking.
func (s *ActorStore) dispatch(payload []byte) []byte {
	var req actorRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return encodeResponse(actorResponse{Ok: false})
	}

	var resp actorResponse
	switch req.Op {
	case "get":
		resp = s.handleGet(req.SessionID)
	case "set":
		resp = s.handleSet(req.Record)
	case "delete":
		resp = s.handleDelete(req.SessionID)
	case "list":
		resp = s.handleList(req.CustomerID)
	default:
		resp = actorResponse{Ok: false}
	}

	return encodeResponse(resp)
}

func encodeResponse(resp actorResponse) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		return []byte(`{"ok":false}`)
	}
	return data
}

func recordKey(sessionID string) []byte {
	return []byte(actorRecordPrefix + sessionID)
}

func indexKey(customerID, sessionID string) []byte {
	return []byte(actorIndexPrefix + customerID + ":" + sessionID)
}

func (s *ActorStore) handleGet(sessionID string) actorResponse {
	var found *actorRecord

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(actorBucket)
		data := b.Get(recordKey(sessionID))
		if data == nil {
			return nil
		}

		var ar actorRecord
		if err := json.Unmarshal(data, &ar); err != nil {
			return b.Delete(recordKey(sessionID))
		}

		if s.now().Unix() >= ar.ExpiresAt {
			// Lazy eviction, same policy as the memory backend.
			if err := b.Delete(recordKey(sessionID)); err != nil {
				return err
			}
			return b.Delete(indexKey(ar.CustomerID, sessionID))
		}

		found = &ar
		return nil
	})
	if err != nil {
		return actorResponse{Ok: false}
	}

	return actorResponse{Ok: true, Record: found}
}

func (s *ActorStore) handleSet(ar *actorRecord) actorResponse {
	if ar == nil || ar.SessionID == "" {
		return actorResponse{Ok: false}
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(actorBucket)
		data, err := json.Marshal(ar)
		if err != nil {
			return err
		}
		if err := b.Put(recordKey(ar.SessionID), data); err != nil {
			return err
		}
		return b.Put(indexKey(ar.CustomerID, ar.SessionID), []byte(ar.SessionID))
	})
	if err != nil {
		return actorResponse{Ok: false}
	}

	return actorResponse{Ok: true}
}

func (s *ActorStore) handleDelete(sessionID string) actorResponse {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(actorBucket)
		data := b.Get(recordKey(sessionID))
		if data == nil {
			return nil
		}

		var ar actorRecord
		if err := json.Unmarshal(data, &ar); err == nil {
			if err := b.Delete(indexKey(ar.CustomerID, sessionID)); err != nil {
				return err
			}
		}
		return b.Delete(recordKey(sessionID))
	})
	if err != nil {
		return actorResponse{Ok: false}
	}

	return actorResponse{Ok: true}
}

func (s *ActorStore) handleList(customerID string) actorResponse {
	records := make([]actorRecord, 0, 4)
	nowUnix := s.now().Unix()

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(actorBucket)
		prefix := []byte(actorIndexPrefix + customerID + ":")

		// Deletions are collected and applied after the scan; mutating
		// the bucket mid-iteration invalidates the cursor.
		var expired [][]byte
		c := b.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			data := b.Get(recordKey(string(v)))
			if data == nil {
				expired = append(expired, append([]byte(nil), k...))
				continue
			}

			var ar actorRecord
			if err := json.Unmarshal(data, &ar); err != nil {
				continue
			}
			if nowUnix >= ar.ExpiresAt {
				expired = append(expired, append([]byte(nil), k...), recordKey(ar.SessionID))
				continue
			}

			records = append(records, ar)
		}

		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return actorResponse{Ok: false}
	}

	return actorResponse{Ok: true, Records: records}
}
