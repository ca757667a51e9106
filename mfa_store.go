package custsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const mfaKeyPrefix = "mfa:"

// RedisMFAStore keeps MFA enrollment records in Redis. Records carry no
// TTL: enrollment survives until explicitly replaced.
type RedisMFAStore struct {
	redis redis.UniversalClient
}

// NewRedisMFAStore wraps an existing Redis client.
func NewRedisMFAStore(client redis.UniversalClient) *RedisMFAStore {
	return &RedisMFAStore{redis: client}
}

func (s *RedisMFAStore) Get(ctx context.Context, customerID string) (*MFARecord, error) {
	data, err := s.redis.Get(ctx, mfaKeyPrefix+customerID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading mfa record: %w", err)
	}

	var record MFARecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding mfa record: %w", err)
	}

	return &record, nil
}

func (s *RedisMFAStore) Set(ctx context.Context, customerID string, record *MFARecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding mfa record: %w", err)
	}

	if err := s.redis.Set(ctx, mfaKeyPrefix+customerID, data, 0).Err(); err != nil {
		return fmt.Errorf("writing mfa record: %w", err)
	}

	return nil
}
