package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	data map[string][]byte
	ttls map[string]int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *memCache) CacheGet(_ context.Context, key string, dest interface{}) error {
	b, ok := m.data[key]
	if !ok {
		return errors.New("redis: nil")
	}
	return json.Unmarshal(b, dest)
}

func (m *memCache) CacheSet(_ context.Context, key string, val interface{}, ttl int) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.data[key] = b
	m.ttls[key] = ttl
	return nil
}

func TestJobLifecycle(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	s := NewJobService(cache)

	require.NoError(t, s.InitPending(ctx, "abc", "scrape"))
	j, err := s.GetJobStatus(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, j.Status)
	assert.Equal(t, "scrape", j.Stage)
	assert.Equal(t, 600, cache.ttls["job:abc"])

	require.NoError(t, s.SetProcessing(ctx, "abc", "scrape"))
	require.NoError(t, s.Complete(ctx, "abc", "scrape", StatusCompleted, map[string]int{"pages": 7}, ""))

	j, err = s.GetJobStatus(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, j.Status)
	assert.JSONEq(t, `{"pages":7}`, string(j.Result))
	assert.Equal(t, 3600, cache.ttls["job:abc"])
}

func TestComplete_FailedKeepsError(t *testing.T) {
	ctx := context.Background()
	s := NewJobService(newMemCache())

	require.NoError(t, s.Complete(ctx, "x", "upload", StatusFailed, nil, "missing BLOB_READ_WRITE_TOKEN environment variable"))
	j, err := s.GetJobStatus(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, j.Status)
	assert.Contains(t, j.Error, "BLOB_READ_WRITE_TOKEN")
	assert.Empty(t, j.Result)
}

func TestGetJobStatus_Unknown(t *testing.T) {
	_, err := NewJobService(newMemCache()).GetJobStatus(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
