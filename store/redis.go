package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisRecordPrefix = "session:"
	redisIndexPrefix  = "customer_sessions:"
)

// deleteRecordScript removes a session record and its customer-index entry.
// The SREM is skipped when the record key is already gone: with no record
// there is nothing the index entry can resolve to, and the dangling member
// self-heals when the index TTL lapses.
const deleteRecordScript = `
local existed = redis.call("EXISTS", KEYS[1])
if existed == 1 then
  redis.call("DEL", KEYS[1])
  redis.call("SREM", KEYS[2], ARGV[1])
end
return existed
`

var deleteRecordLua = redis.NewScript(deleteRecordScript)

// RedisStore is a Store backed by a TTL'd Redis keyspace. Records live
// under "session:{id}"; a per-customer SET under
// "customer_sessions:{customerId}" provides the listing index and has its
// TTL refreshed on every write so it cannot outlive its members
// indefinitely.
type RedisStore struct {
	redis redis.UniversalClient
	ttl   time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store whose records expire after ttl.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redis: client,
		ttl:   ttl,
	}
}

func (s *RedisStore) recordKey(sessionID string) string {
	return redisRecordPrefix + sessionID
}

func (s *RedisStore) indexKey(customerID string) string {
	return redisIndexPrefix + customerID
}

// Get retrieves and decodes a single record.
//
//	Performance: 1 Redis GET.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Record, error) {
	data, err := s.redis.Get(ctx, s.recordKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: corrupt record: %v", ErrUnavailable, err)
	}
	rec.SessionID = sessionID

	return &rec, nil
}

// Set writes the record with the configured TTL, adds the session id to the
// customer index, and refreshes the index TTL.
//
//	Performance: 3 commands in one MULTI/EXEC round trip.
func (s *RedisStore) Set(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	recordKey := s.recordKey(rec.SessionID)
	indexKey := s.indexKey(rec.CustomerID)

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, recordKey, data, s.ttl)
		pipe.SAdd(ctx, indexKey, rec.SessionID)
		pipe.Expire(ctx, indexKey, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Delete removes the record and its index membership via a Lua script.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	rec, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}

	keys := []string{s.recordKey(sessionID), s.indexKey(rec.CustomerID)}
	if _, err := deleteRecordLua.Run(ctx, s.redis, keys, sessionID).Result(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// List reads the customer's member-id set, bulk-fetches the record keys in
// one pipelined round trip, and discards ids whose records have already
// expired. Dangling index entries are tolerated, not repaired.
func (s *RedisStore) List(ctx context.Context, customerID string) ([]*Record, error) {
	sessionIDs, err := s.redis.SMembers(ctx, s.indexKey(customerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*Record{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(sessionIDs) == 0 {
		return []*Record{}, nil
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(sessionIDs))
	for i, sid := range sessionIDs {
		cmds[i] = pipe.Get(ctx, s.recordKey(sid))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	records := make([]*Record, 0, len(sessionIDs))
	for i, cmd := range cmds {
		data, cmdErr := cmd.Bytes()
		if cmdErr != nil {
			if errors.Is(cmdErr, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, cmdErr)
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		rec.SessionID = sessionIDs[i]
		records = append(records, &rec)
	}

	return records, nil
}
