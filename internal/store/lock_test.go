package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLock_ExcludesSecondRun(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "jobs.csv")
	first := NewFileLock(storePath, time.Hour, "run-a")
	second := NewFileLock(storePath, time.Hour, "run-b")

	unlock, err := first.Lock(context.Background())
	require.NoError(t, err)

	_, err = second.Lock(context.Background())
	assert.ErrorIs(t, err, ErrLocked)
	assert.Contains(t, err.Error(), "run-a")

	require.NoError(t, unlock())
	unlock, err = second.Lock(context.Background())
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestFileLock_TakesOverStaleLock(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "jobs.csv")
	lockPath := storePath + ".lock"
	require.NoError(t, os.WriteFile(lockPath, []byte("run-old pid=1\n"), 0644))
	old := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(lockPath, old, old))

	unlock, err := NewFileLock(storePath, time.Hour, "run-new").Lock(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(lockPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run-new")
	require.NoError(t, unlock())
	_, err = os.Stat(lockPath)
	assert.True(t, os.IsNotExist(err))
}

func TestFileLock_UnlockLeavesForeignLock(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "jobs.csv")
	l := NewFileLock(storePath, time.Hour, "run-a")
	unlock, err := l.Lock(context.Background())
	require.NoError(t, err)

	// another run took over after we were considered stale
	require.NoError(t, os.WriteFile(l.Path, []byte("run-b pid=2\n"), 0644))
	require.NoError(t, unlock())

	_, err = os.Stat(l.Path)
	assert.NoError(t, err)
}

func TestRedisLock(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if testing.Short() || url == "" {
		t.Skip("Skipping redis lock test: REDIS_URL not set or short mode")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	key := "jobradar:test-lock:" + t.Name()
	defer client.Del(ctx, key)

	unlock, err := NewRedisLock(client, key, time.Minute, "run-a").Lock(ctx)
	require.NoError(t, err)

	_, err = NewRedisLock(client, key, time.Minute, "run-b").Lock(ctx)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, unlock())
	exists, err := client.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}
