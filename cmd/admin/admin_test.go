package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molopl.dev/addons/internal/persistence/kvstore"
	"molopl.dev/addons/internal/plugins/lastseen"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.sqlite")
	store, err := kvstore.OpenSQLite(path)
	require.NoError(t, err)
	dao := lastseen.NewDAO(store, nil)
	require.NoError(t, dao.SetLastSeen("Bob", time.Now().Add(-2*time.Hour).UnixMilli()))
	require.NoError(t, store.Set(lastseen.ConfigGroup, lastseen.KeyPrefix+"Broken", "x"))
	require.NoError(t, store.Close())
	return path
}

func TestLastSeenList(t *testing.T) {
	db := seed(t)
	out, err := execute(t, "lastseen", "list", "--db", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Bob\t"))
	assert.True(t, strings.HasSuffix(lines[0], "\t2 hours ago"))
	assert.Equal(t, "Broken\tinvalid value \"x\"", lines[1])
}

func TestLastSeenShowDeleteMigrate(t *testing.T) {
	db := seed(t)

	out, err := execute(t, "lastseen", "show", "Bob", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "Bob: 2 hours ago\n", out)

	_, err = execute(t, "lastseen", "migrate", "Bob", "Robert", "--db", db)
	require.NoError(t, err)
	out, err = execute(t, "lastseen", "show", "Bob", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "Bob: never\n", out)

	_, err = execute(t, "lastseen", "delete", "Robert", "--db", db)
	require.NoError(t, err)
	out, err = execute(t, "lastseen", "show", "Robert", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "Robert: never\n", out)
}

func TestMissingDB(t *testing.T) {
	_, err := execute(t, "lastseen", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--db")
}
