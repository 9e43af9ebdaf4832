// internal/catalog/cache_test.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	items []models.Scholarship
	err   error
	calls int
}

func (c *countingSource) Name() string                   { return "counting" }
func (c *countingSource) Ping(ctx context.Context) error { return nil }
func (c *countingSource) FetchAll(ctx context.Context) ([]models.Scholarship, error) {
	c.calls++
	return c.items, c.err
}

func TestCachedSource_MissThenHit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	inner := &countingSource{items: SampleCatalog()}
	cached := NewCachedSource(inner, client, time.Minute, logger.NewTestLogger(t))

	first, err := cached.FetchAll(context.Background())
	require.NoError(t, err)
	second, err := cached.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(SnapshotKey))
	assert.Equal(t, time.Minute, mr.TTL(SnapshotKey))
	assert.Equal(t, "cached-counting", cached.Name())
}

func TestCachedSource_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	inner := &countingSource{items: SampleCatalog()}
	cached := NewCachedSource(inner, client, time.Minute, logger.NewNoOpLogger())

	_, err := cached.FetchAll(context.Background())
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = cached.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_Invalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cached := NewCachedSource(&countingSource{items: SampleCatalog()}, client, time.Minute, logger.NewNoOpLogger())
	_, err := cached.FetchAll(context.Background())
	require.NoError(t, err)

	require.NoError(t, cached.Invalidate(context.Background()))
	assert.False(t, mr.Exists(SnapshotKey))
}

func TestCachedSource_CorruptEntryFallsBack(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, mr.Set(SnapshotKey, "{not json"))

	inner := &countingSource{items: SampleCatalog()}
	items, err := NewCachedSource(inner, client, time.Minute, logger.NewNoOpLogger()).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, len(SampleCatalog()))
	assert.Equal(t, 1, inner.calls)
}

func TestCachedSource_RedisDownFallsBack(t *testing.T) {
	client, mock := redismock.NewClientMock()

	items := SampleCatalog()
	data, err := json.Marshal(items)
	require.NoError(t, err)

	mock.ExpectGet(SnapshotKey).SetErr(errors.New("connection refused"))
	mock.ExpectSet(SnapshotKey, data, 30*time.Second).SetErr(errors.New("connection refused"))

	inner := &countingSource{items: items}
	got, err := NewCachedSource(inner, client, 30*time.Second, logger.NewNoOpLogger()).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedSource_MissStoresSnapshot(t *testing.T) {
	client, mock := redismock.NewClientMock()

	items := SampleCatalog()
	data, err := json.Marshal(items)
	require.NoError(t, err)

	mock.ExpectGet(SnapshotKey).RedisNil()
	mock.ExpectSet(SnapshotKey, data, time.Minute).SetVal("OK")

	_, err = NewCachedSource(&countingSource{items: items}, client, time.Minute, logger.NewNoOpLogger()).FetchAll(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedSource_SourceErrorNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	inner := &countingSource{err: errors.New("db down")}
	_, err := NewCachedSource(inner, client, time.Minute, logger.NewNoOpLogger()).FetchAll(context.Background())
	require.Error(t, err)
	assert.False(t, mr.Exists(SnapshotKey))
}
