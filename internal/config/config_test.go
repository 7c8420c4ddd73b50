package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "funnel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
providers:
  fs: "npx -y server-filesystem /tmp"
  db:
    command: db-server
    args: ["--dsn", "postgres://localhost/app"]
  remote:
    type: sse
    url: https://tools.example.com/sse
prefixAll: true
filter:
  deny: ["delete_everything"]
  providers:
    db:
      allow: ["query"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Providers, 3)
	assert.True(t, cfg.PrefixAll)
	assert.Equal(t, []string{"delete_everything"}, cfg.Filter.Deny)
	assert.Equal(t, []string{"query"}, cfg.Filter.Providers["db"].Allow)

	// Each provider value resolves to a usable transport.
	fs, err := ResolveTransport("fs", cfg.Providers["fs"])
	require.NoError(t, err)
	assert.Equal(t, TransportStdio, fs.Type)
	assert.Equal(t, "npx", fs.Command)

	db, err := ResolveTransport("db", cfg.Providers["db"])
	require.NoError(t, err)
	assert.Equal(t, "db-server", db.Command)
	assert.Equal(t, []string{"--dsn", "postgres://localhost/app"}, db.Args)

	remote, err := ResolveTransport("remote", cfg.Providers["remote"])
	require.NoError(t, err)
	assert.Equal(t, TransportSSE, remote.Type)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "providers: [not: a: map")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Providers)
	assert.False(t, cfg.PrefixAll)
}
