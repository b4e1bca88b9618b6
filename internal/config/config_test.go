package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/actionbridge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPathUsesEnv(t *testing.T) {
	path := write(t, "env.yaml", "executor: api\n")
	t.Setenv(EnvPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "api", cfg.Executor)
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "bridge.yaml", `
executor: api
base_path: /api
policy: body
strict: false
endpoint: /jsonscript
listen: ":9090"
metrics: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Executor: "api",
		BasePath: "/api",
		Policy:   "body",
		Strict:   false,
		Endpoint: "/jsonscript",
		Listen:   ":9090",
		Metrics:  false,
		LogLevel: "info",
	}, cfg)
}

func TestLoad_JSONKeepsUnsetDefaults(t *testing.T) {
	path := write(t, "bridge.json", `{"base_path": "/v1"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/v1", cfg.BasePath)
	assert.Equal(t, "router", cfg.Executor)
	assert.True(t, cfg.Strict)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(write(t, "bad.yaml", "policy: loud\n"))
	assert.ErrorIs(t, err, domain.ErrUnknownPolicy)

	_, err = Load(write(t, "bad.yaml", "endpoint: js\n"))
	assert.ErrorContains(t, err, "must start with /")

	_, err = Load(write(t, "bad.yaml", "executor: [\n"))
	assert.ErrorContains(t, err, "parse config")
}
