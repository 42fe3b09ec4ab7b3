package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rs := NewRedisStorage(mr.Addr(), 0, testLogger())
	require.NoError(t, rs.Ping(context.Background()))
	return rs, mr
}

func TestRedisStorage_WriteReadDelete(t *testing.T) {
	rs, mr := setupTestRedis(t)
	defer mr.Close()
	defer rs.Close()
	ctx := context.Background()

	require.NoError(t, rs.WriteSave(ctx, "slot1", []byte("payload.tag")))
	require.NoError(t, rs.WriteThumbnail(ctx, "slot1", []byte("png")))

	data, found, err := rs.ReadSave(ctx, "slot1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("payload.tag"), data)

	require.NoError(t, rs.DeleteSave(ctx, "slot1"))
	_, found, err = rs.ReadSave(ctx, "slot1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("thumb:slot1"), "thumbnail deleted with the save")
}

func TestRedisStorage_ReadMissingIsNotFound(t *testing.T) {
	rs, mr := setupTestRedis(t)
	defer mr.Close()
	defer rs.Close()

	_, found, err := rs.ReadSave(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStorage_ListSaves(t *testing.T) {
	rs, mr := setupTestRedis(t)
	defer mr.Close()
	defer rs.Close()
	ctx := context.Background()

	require.NoError(t, rs.WriteSave(ctx, "zulu", []byte("z")))
	require.NoError(t, rs.WriteSave(ctx, "alpha", []byte("a")))
	require.NoError(t, rs.WriteThumbnail(ctx, "alpha", []byte("png")))

	names, err := rs.ListSaves(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zulu"}, names)
}

func TestRedisStorage_TTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rs := NewRedisStorage(mr.Addr(), time.Minute, testLogger())
	defer rs.Close()

	require.NoError(t, rs.WriteSave(context.Background(), "slot1", []byte("data")))
	assert.Greater(t, mr.TTL("save:slot1"), time.Duration(0))

	mr.FastForward(2 * time.Minute)
	_, found, err := rs.ReadSave(context.Background(), "slot1")
	require.NoError(t, err)
	assert.False(t, found, "expired saves read as missing")
}
