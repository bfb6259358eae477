package lastseen

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molopl.dev/addons/internal/persistence/kvstore"
)

func TestDAO_SetOnlyMovesForward(t *testing.T) {
	store := kvstore.NewMemory()
	d := NewDAO(store, nil)

	require.NoError(t, d.SetLastSeen("Bob", 2000))
	require.NoError(t, d.SetLastSeen("Bob", 1000))
	ms, ok := d.LastSeen("Bob")
	require.True(t, ok)
	assert.Equal(t, int64(2000), ms)

	raw, ok, err := store.Get(ConfigGroup, "lastSeen_Bob")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2000", raw)
}

func TestDAO_ReadThrough(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(ConfigGroup, "lastSeen_Alice", "1234"))
	d := NewDAO(store, nil)

	ms, ok := d.LastSeen("Alice")
	require.True(t, ok)
	assert.Equal(t, int64(1234), ms)

	// Served from cache from now on.
	require.NoError(t, store.Unset(ConfigGroup, "lastSeen_Alice"))
	ms, ok = d.LastSeen("Alice")
	assert.True(t, ok)
	assert.Equal(t, int64(1234), ms)

	_, ok = d.LastSeen("Nobody")
	assert.False(t, ok)
}

func TestDAO_InvalidValueIsAbsent(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(ConfigGroup, "lastSeen_Bob", "yesterday"))
	d := NewDAO(store, nil)

	_, ok := d.LastSeen("Bob")
	assert.False(t, ok)
	require.NoError(t, d.SetLastSeen("Bob", 5))
	ms, ok := d.LastSeen("Bob")
	assert.True(t, ok)
	assert.Equal(t, int64(5), ms)
}

func TestDAO_DeleteAndMigrate(t *testing.T) {
	d := NewDAO(kvstore.NewMemory(), nil)
	require.NoError(t, d.SetLastSeen("Old name", 100))
	require.NoError(t, d.SetLastSeen("New name", 50))

	require.NoError(t, d.Migrate("Old name", "New name"))
	_, ok := d.LastSeen("Old name")
	assert.False(t, ok)
	ms, _ := d.LastSeen("New name")
	assert.Equal(t, int64(100), ms)

	require.NoError(t, d.Migrate("Ghost", "Other"))
	_, ok = d.LastSeen("Other")
	assert.False(t, ok)

	require.NoError(t, d.Delete("New name"))
	_, ok = d.LastSeen("New name")
	assert.False(t, ok)
}

func TestDAO_StoreErrors(t *testing.T) {
	store, err := kvstore.OpenSQLite(filepath.Join(t.TempDir(), "config.sqlite"))
	require.NoError(t, err)
	d := NewDAO(store, nil)
	require.NoError(t, d.SetLastSeen("Bob", 1))
	require.NoError(t, store.Close())

	err = d.SetLastSeen("Bob", 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kvstore.ErrClosed))
	_, ok := d.LastSeen("Carol")
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(ConfigGroup, "lastSeen_Zed", "10"))
	require.NoError(t, store.Set(ConfigGroup, "lastSeen_Amy", "bogus"))
	require.NoError(t, store.Set(ConfigGroup, "other", "1"))
	require.NoError(t, store.Set("elsewhere", "lastSeen_Bob", "1"))

	got, err := List(store)
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Name: "Amy", Raw: "bogus"},
		{Name: "Zed", LastSeen: 10, Valid: true, Raw: "10"},
	}, got)
}
