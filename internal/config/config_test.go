package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "env: production\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Contains(t, cfg.DSN, "techpress")
	assert.Contains(t, cfg.RedisURL, "localhost:6379")
	assert.Equal(t, defaultIngestMaxItems, cfg.Ingest.MaxItems)
	assert.Equal(t, defaultBroadcastConc, cfg.Broadcast.Concurrency)
	assert.Equal(t, "static", cfg.Paths.Static)
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
port: 9000
env: development
dsn: "user:pass@tcp(db:3306)/press?parseTime=true"
redis_url: "redis://cache:6379/2"
jwt_secret: "s3cret"
admin:
  email: admin@example.com
  password: hunter22
ingest:
  feed_url: https://example.com/rss
  max_items: 10
broadcast:
  token: trigger-token
  concurrency: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "user:pass@tcp(db:3306)/press?parseTime=true", cfg.DSN)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.Equal(t, 10, cfg.Ingest.MaxItems)
	assert.Equal(t, 8, cfg.Broadcast.Concurrency)
	assert.Equal(t, "trigger-token", cfg.Broadcast.Token)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "prot: 8080\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	path := writeConfig(t, "port: 70000\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
