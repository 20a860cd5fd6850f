package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so no stray .env is read.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestDefaults(t *testing.T) {
	inTempDir(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, 4444, cfg.OxiDBPort)
	assert.Equal(t, "orphan", cfg.TemplateDelete)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestEnvOverrides(t *testing.T) {
	inTempDir(t)
	t.Setenv("DMS_ADDR", ":9090")
	t.Setenv("DMS_STORE", "OxiDB")
	t.Setenv("OXIDB_HOST", "db.local")
	t.Setenv("OXIDB_PORT", "5555")
	t.Setenv("DMS_CORS_ORIGINS", "http://a.local, http://b.local")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, StoreOxiDB, cfg.Store)
	assert.Equal(t, "db.local", cfg.OxiDBHost)
	assert.Equal(t, 5555, cfg.OxiDBPort)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORSOrigins)
}

func TestConfigFileAndDotEnv(t *testing.T) {
	dir := inTempDir(t)
	file := filepath.Join(dir, "oxidocs.yaml")
	require.NoError(t, os.WriteFile(file, []byte("store: postgres\ndatabase_url: postgres://localhost/dms\ncors_origins:\n  - http://admin.local\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DMS_ADMIN_PASS=secret\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DMS_ADMIN_PASS") })

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "postgres://localhost/dms", cfg.DatabaseURL)
	assert.Equal(t, []string{"http://admin.local"}, cfg.CORSOrigins)
	assert.Equal(t, "secret", cfg.AdminPass)
}

func TestUnknownStore(t *testing.T) {
	inTempDir(t)
	t.Setenv("DMS_STORE", "mongo")
	_, err := Load("")
	assert.ErrorContains(t, err, `unknown store "mongo"`)
}
