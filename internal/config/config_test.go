package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 5005, cfg.Port)
	assert.Equal(t, ":5005", cfg.Addr())
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "mongodb://localhost/FriendList", cfg.Storage.URI)
	assert.Equal(t, "FriendList", cfg.Storage.Database)
	assert.Equal(t, "friends", cfg.Storage.Collection)
	assert.Equal(t, 5*time.Second, cfg.Storage.Timeout)
}

func TestLoadPortFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadZeroStorageTimeout(t *testing.T) {
	t.Setenv("STORAGE_TIMEOUT", "0s")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Zero(t, cfg.Storage.Timeout)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
storage:
  driver: "sqlite"
  path: "/tmp/friends.db"
http_server:
  host: "127.0.0.1"
  port: 7000
  read_timeout: 3s
`)
	t.Setenv("HTTP_HOST", "0.0.0.0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/friends.db", cfg.Storage.Path)
	assert.Equal(t, "0.0.0.0:7000", cfg.Addr())
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	// Not in the file: filled from defaults.
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, "friends", cfg.Storage.Collection)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "postgres")
		_, err := Load("")
		assert.ErrorContains(t, err, "unknown storage driver")
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("PORT", "70000")
		_, err := Load("")
		assert.ErrorContains(t, err, "out of range")
	})
}
