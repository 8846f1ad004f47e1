package persistence

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-service/internal/domain"
)

func TestSlotKeyIsZoneIndependent(t *testing.T) {
	utc := time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("UTC+3", 3*3600))

	assert.Equal(t, SlotKey(utc), SlotKey(local))
	assert.Equal(t, "consultation:slot:1903858200000", SlotKey(utc))
}

func TestSlotLockWithoutClientIsNoop(t *testing.T) {
	var lock *SlotLock
	release, err := lock.Acquire(context.Background(), time.Now())
	require.NoError(t, err)
	require.NotNil(t, release)
	release()

	lock = NewSlotLock(nil, time.Second, zap.NewNop())
	release, err = lock.Acquire(context.Background(), time.Now())
	require.NoError(t, err)
	release()
}

func TestArticleCacheDisabled(t *testing.T) {
	cache := NewArticleCache(nil, time.Minute, zap.NewNop())
	cache.SetFeatured(context.Background(), []domain.Article{{ID: "a"}})
	got, ok := cache.GetFeatured(context.Background())
	assert.False(t, ok)
	assert.Nil(t, got)
	cache.InvalidateFeatured(context.Background())
}

func TestRedisPingWithoutClient(t *testing.T) {
	var r *Redis
	assert.Error(t, r.Ping(context.Background()))
	r.Close()
}

func TestPostgresPingWithoutPool(t *testing.T) {
	p := &Postgres{}
	assert.Error(t, p.Ping(context.Background()))
	assert.Nil(t, p.PoolHandle())
	p.Close()
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(Migrations(), ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_init.sql", entries[0].Name())
}
