package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/doomcrawl/storage/file"
	"github.com/nathoo/doomcrawl/storage/sqlite"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(FileEnv, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.SaveBackend)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Contains(t, cfg.SaveDir, filepath.Join(".doomcrawl", "saves"))
	assert.False(t, cfg.Debug)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv(FileEnv, "")
	t.Setenv("DOOMCRAWL_SEED", "1234")
	t.Setenv("DOOMCRAWL_SAVE_BACKEND", "sqlite")
	t.Setenv("DOOMCRAWL_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("DOOMCRAWL_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), cfg.Seed)
	assert.Equal(t, BackendSQLite, cfg.SaveBackend)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.True(t, cfg.Debug)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv(FileEnv, "")
	t.Setenv("DOOMCRAWL_SEED", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoad_FileOverlaysEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doomcrawl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 77\nruleset: hard.lua\nplain: true\n"), 0o644))
	t.Setenv(FileEnv, path)
	t.Setenv("DOOMCRAWL_SEED", "5")
	t.Setenv("DOOMCRAWL_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(77), cfg.Seed)
	assert.Equal(t, "hard.lua", cfg.Ruleset)
	assert.True(t, cfg.Plain)
	assert.True(t, cfg.Debug, "fields absent from the file keep their env value")
}

func TestLoad_FileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("seed: [1, 2"), 0o644))

	for _, path := range []string{bad, filepath.Join(dir, "missing.yaml")} {
		t.Setenv(FileEnv, path)
		_, err := Load()
		assert.Error(t, err, path)
	}
}

func TestValidate_Backend(t *testing.T) {
	assert.NoError(t, Config{SaveBackend: BackendFile}.Validate())
	assert.ErrorIs(t, Config{SaveBackend: "postgres"}.Validate(), ErrUnknownBackend)
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	fs, err := Config{SaveBackend: BackendFile, SaveDir: filepath.Join(dir, "saves")}.OpenStore()
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, fs)
	require.NoError(t, fs.Close())

	db, err := Config{SaveBackend: BackendSQLite, SQLitePath: filepath.Join(dir, "db", "saves.db")}.OpenStore()
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Store{}, db)
	require.NoError(t, db.Close())
}
