package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, GetDefaultConfig().Server, cfg.Server)
	assert.Equal(t, []string{"usr/plugins", "plugins"}, cfg.Plugins.Roots)
	assert.Equal(t, HookPolicyAbort, cfg.Hooks.FailurePolicy)
	assert.Equal(t, "python3", cfg.Runtime.Interpreters[".py"])
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), `
server:
  port: 9000
plugins:
  roots:
    - custom/plugins
hooks:
  failurePolicy: continue
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, []string{"custom/plugins"}, cfg.Plugins.Roots)
	assert.Equal(t, HookPolicyContinue, cfg.Hooks.FailurePolicy)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "server:\n  port: 9000\n")
	t.Setenv("AGENTPLUG_PORT", "9100")
	t.Setenv("AGENTPLUG_ROOTS", "a,b,c")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Plugins.Roots)
}

func TestLoadConfig_DotEnvInConfigDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "AGENTPLUG_LOG_LEVEL=debug\n")
	t.Setenv("AGENTPLUG_LOG_LEVEL", "")
	os.Unsetenv("AGENTPLUG_LOG_LEVEL")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "server: [unclosed\n")

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading config")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), `
server:
  port: 70000
hooks:
  failurePolicy: sometimes
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "hooks.failurePolicy")
}

func TestResolvePaths(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Plugins.Roots = []string{"usr/plugins", "/abs/plugins"}
	cfg.ResolvePaths("/base")

	assert.Equal(t, filepath.Join("/base", "usr/plugins"), cfg.Plugins.Roots[0])
	assert.Equal(t, "/abs/plugins", cfg.Plugins.Roots[1])
	assert.Equal(t, filepath.Join("/base", "usr/projects"), cfg.Settings.ProjectsDir)
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, "localhost:8095", ServerConfig{Host: "localhost", Port: 8095}.Addr())
}
