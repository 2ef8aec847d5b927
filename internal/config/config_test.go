package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, DefaultFile, `
format: json
out: gen
suffix: Mode
workers: 4
split: true
redis:
  addr: localhost:6379
  ttl: 1h
hooks:
  - name: gofmt
    command: gofmt
    args: [-w]
    formats: [go]
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "gen", cfg.OutDir)
	assert.Equal(t, "Mode", cfg.NameSuffix)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Split)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "1h", cfg.Redis.TTL)
	require.Len(t, cfg.Hooks, 1)
	assert.Equal(t, "gofmt", cfg.Hooks[0].Command)
	assert.Equal(t, []string{"-w"}, cfg.Hooks[0].Args)
	assert.True(t, cfg.Hooks[0].Applies("go"))
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "statewrap.json", `{"format": "mermaid"}`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "mermaid", cfg.Format)
	assert.Equal(t, ".", cfg.OutDir, "unset fields keep their defaults")
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(write(t, DefaultFile, ""), true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(path, true)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(write(t, DefaultFile, "formats: go\n"), true)
	assert.Error(t, err, "unknown keys are rejected")

	_, err = Load(write(t, DefaultFile, "workers: -1\n"), true)
	assert.ErrorContains(t, err, "negative")
}
