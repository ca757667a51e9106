package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testRecord(sessionID, customerID string) *Record {
	return &Record{
		SessionID:  sessionID,
		CustomerID: customerID,
		UserAgent:  "test-agent",
		CreatedAt:  time.Unix(1_700_000_000, 0),
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, testRecord("sid-1", "cust-1")))

	got, err := s.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "cust-1", got.CustomerID)
	require.Equal(t, "test-agent", got.UserAgent)

	// The store hands out copies; mutating a result must not leak back.
	got.CustomerID = "mutated"
	again, err := s.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.Equal(t, "cust-1", again.CustomerID)
}

func TestMemoryStoreAbsent(t *testing.T) {
	s := NewMemoryStore(time.Hour)

	got, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryStoreLazyExpiry(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	base := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return base }
	require.NoError(t, s.Set(ctx, testRecord("sid-1", "cust-1")))

	s.now = func() time.Time { return base.Add(59 * time.Minute) }
	got, err := s.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	s.now = func() time.Time { return base.Add(61 * time.Minute) }
	got, err = s.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, 0, s.Len(), "expired entry must be evicted on read")
}

func TestMemoryStoreSetRefreshesTTL(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	base := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return base }
	require.NoError(t, s.Set(ctx, testRecord("sid-1", "cust-1")))

	s.now = func() time.Time { return base.Add(50 * time.Minute) }
	require.NoError(t, s.Set(ctx, testRecord("sid-1", "cust-1")))

	s.now = func() time.Time { return base.Add(80 * time.Minute) }
	got, err := s.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got, "rewrite must restart the TTL clock")
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, testRecord("sid-1", "cust-1")))
	require.NoError(t, s.Delete(ctx, "sid-1"))
	require.NoError(t, s.Delete(ctx, "sid-1"))

	got, err := s.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, testRecord("sid-1", "cust-1")))
	require.NoError(t, s.Set(ctx, testRecord("sid-2", "cust-1")))
	require.NoError(t, s.Set(ctx, testRecord("sid-3", "cust-2")))

	records, err := s.List(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		require.Equal(t, "cust-1", rec.CustomerID)
	}

	records, err = s.List(ctx, "cust-404")
	require.NoError(t, err)
	require.Empty(t, records)
}
