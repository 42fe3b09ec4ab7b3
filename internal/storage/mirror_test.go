package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirrorStorage_WritesBoth(t *testing.T) {
	primary := NewMockStorage()
	secondary := NewMockStorage()
	m := NewMirrorStorage(primary, secondary, testLogger())
	ctx := context.Background()

	require.NoError(t, m.WriteSave(ctx, "slot1", []byte("data")))

	for _, s := range []*MockStorage{primary, secondary} {
		data, found, err := s.ReadSave(ctx, "slot1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []byte("data"), data)
	}
}

func TestMirrorStorage_SecondaryFailureIsSilent(t *testing.T) {
	primary := NewMockStorage()
	secondary := NewMockStorage()
	secondary.WriteErr = errors.New("redis down")
	m := NewMirrorStorage(primary, secondary, testLogger())

	assert.NoError(t, m.WriteSave(context.Background(), "slot1", []byte("data")))
}

func TestMirrorStorage_PrimaryFailureSurfaces(t *testing.T) {
	primary := NewMockStorage()
	primary.WriteErr = errors.New("disk full")
	m := NewMirrorStorage(primary, NewMockStorage(), testLogger())

	assert.ErrorContains(t, m.WriteSave(context.Background(), "slot1", []byte("data")), "disk full")
}

func TestMirrorStorage_ReadFallsBackToSecondary(t *testing.T) {
	primary := NewMockStorage()
	secondary := NewMockStorage()
	require.NoError(t, secondary.WriteSave(context.Background(), "slot1", []byte("mirrored")))
	m := NewMirrorStorage(primary, secondary, testLogger())

	data, found, err := m.ReadSave(context.Background(), "slot1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("mirrored"), data)
}

func TestMirrorStorage_DeleteRemovesBoth(t *testing.T) {
	primary := NewMockStorage()
	secondary := NewMockStorage()
	m := NewMirrorStorage(primary, secondary, testLogger())
	ctx := context.Background()

	require.NoError(t, m.WriteSave(ctx, "slot1", []byte("data")))
	require.NoError(t, m.DeleteSave(ctx, "slot1"))

	_, found, err := m.ReadSave(ctx, "slot1")
	require.NoError(t, err)
	assert.False(t, found)
}
