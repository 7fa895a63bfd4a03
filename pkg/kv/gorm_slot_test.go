package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/maxicoffee/storefront/pkg/config"
	"github.com/maxicoffee/storefront/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSlotTestDB(t *testing.T) *GormSlot {
	t.Helper()

	cfg := config.DBConfig{SQLitePath: filepath.Join(t.TempDir(), "slots.db")}
	client, err := db.New(context.Background(), cfg, true, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(&CartSlotRecord{}))

	slot, err := NewGormSlot(client)
	require.NoError(t, err)
	return slot
}

func TestGormSlotUpsertReplacesRow(t *testing.T) {
	slot := setupSlotTestDB(t)
	ctx := context.Background()

	require.NoError(t, slot.Set(ctx, "mxc:cart:u1", []byte(`["first"]`)))
	require.NoError(t, slot.Set(ctx, "mxc:cart:u1", []byte(`["second"]`)))

	payload, ok, err := slot.Get(ctx, "mxc:cart:u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["second"]`, string(payload))

	var count int64
	require.NoError(t, slot.client.DB().Model(&CartSlotRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "upsert should not grow the table")
}

func TestGormSlotKeysAreIndependent(t *testing.T) {
	slot := setupSlotTestDB(t)
	ctx := context.Background()

	require.NoError(t, slot.Set(ctx, "mxc:cart:u1", []byte(`["maria"]`)))
	require.NoError(t, slot.Set(ctx, "mxc:cart:u2", []byte(`["jose"]`)))
	require.NoError(t, slot.Delete(ctx, "mxc:cart:u1"))

	_, ok, err := slot.Get(ctx, "mxc:cart:u1")
	require.NoError(t, err)
	assert.False(t, ok)

	payload, ok, err := slot.Get(ctx, "mxc:cart:u2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["jose"]`, string(payload))
}

func TestNewGormSlotRequiresClient(t *testing.T) {
	t.Parallel()

	_, err := NewGormSlot(nil)
	require.Error(t, err)
}
