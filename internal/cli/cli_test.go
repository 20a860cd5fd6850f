package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/oxidocs/internal/repository/sqlrepo"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func sqliteEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	path := filepath.Join(dir, "dms.db")
	t.Setenv("DMS_STORE", "sqlite")
	t.Setenv("DMS_DATABASE_URL", path)
	return path
}

func TestUserAddAndCheck(t *testing.T) {
	sqliteEnv(t)

	out, err := run(t, "user", "add", "operator", "--password", "s3cret!")
	require.NoError(t, err)
	assert.Contains(t, out, "created user 1 (operator)")

	out, err = run(t, "user", "check", "operator", "--password", "s3cret!")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	_, err = run(t, "user", "check", "operator", "--password", "wrong")
	assert.ErrorContains(t, err, "invalid username or password")

	_, err = run(t, "user", "add", "operator", "--password", "another")
	assert.ErrorContains(t, err, "Username already exists")
}

func TestSeedSample(t *testing.T) {
	path := sqliteEnv(t)
	t.Setenv("DMS_ADMIN_PASS", "admin-pass")

	_, err := run(t, "migrate")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = run(t, "seed", "--sample")
		require.NoError(t, err)
	}

	store, err := sqlrepo.Open(sqlrepo.SQLite, path)
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	templates, err := store.Templates.List(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, 1)
	admin, err := store.Users.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.NotNil(t, admin)
}

func TestUnknownStoreFails(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("DMS_STORE", "cassandra")
	_, err := run(t, "migrate")
	assert.ErrorContains(t, err, "unknown store")
}
