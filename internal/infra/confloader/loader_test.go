package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Host            string        `koanf:"host"`
		Port            int           `koanf:"port"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
		RateLimit       struct {
			Burst int `koanf:"burst"`
		} `koanf:"rate_limit"`
	} `koanf:"server"`
	Greeting struct {
		DefaultName string `koanf:"default_name"`
	} `koanf:"greeting"`
	Buckets []float64 `koanf:"buckets"`
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	assert.Equal(t, DefaultEnvPrefix, l.envPrefix)
	assert.Empty(t, l.FilePath())

	l = NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/etc/healthy.yaml"))
	assert.Equal(t, "TEST_", l.envPrefix)
	assert.Equal(t, "/etc/healthy.yaml", l.FilePath())
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeFile(t, `
server:
  host: "127.0.0.1"
  port: 9000
  shutdown_timeout: 3s
greeting:
  default_name: "friend"
buckets: [0.1, 1]
`)

	var cfg testConfig
	require.NoError(t, NewLoader(WithConfigFile(path)).Load(&cfg))

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "friend", cfg.Greeting.DefaultName)
	assert.Equal(t, []float64{0.1, 1}, cfg.Buckets)
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	var cfg testConfig
	err := NewLoader(WithConfigFile("/nonexistent/config.yaml")).Load(&cfg)
	assert.ErrorContains(t, err, "load config file")
}

func TestLoader_KeepsTargetDefaults(t *testing.T) {
	path := writeFile(t, "server:\n  port: 9000\n")

	var cfg testConfig
	cfg.Server.Host = "0.0.0.0"
	cfg.Greeting.DefaultName = "you!!"
	require.NoError(t, NewLoader(WithConfigFile(path)).Load(&cfg))

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "you!!", cfg.Greeting.DefaultName)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoader_Env(t *testing.T) {
	t.Setenv("HEALTHY_SERVER__PORT", "8081")
	t.Setenv("HEALTHY_SERVER__RATE_LIMIT__BURST", "7")
	t.Setenv("HEALTHY_GREETING__DEFAULT_NAME", "env-name")

	l := NewLoader()
	var cfg testConfig
	require.NoError(t, l.Load(&cfg))

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Server.RateLimit.Burst)
	assert.Equal(t, "env-name", cfg.Greeting.DefaultName)
	assert.Contains(t, l.Keys(), "greeting.default_name")
}

func TestLoader_EnvCustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_SERVER__PORT", "9090")

	var cfg testConfig
	require.NoError(t, NewLoader(WithEnvPrefix("MYAPP_")).Load(&cfg))
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoader_Priority(t *testing.T) {
	path := writeFile(t, `
server:
  host: "file-host"
  port: 1000
greeting:
  default_name: "file-name"
`)
	t.Setenv("HEALTHY_SERVER__PORT", "2000")
	t.Setenv("HEALTHY_SERVER__HOST", "env-host")

	l := NewLoader(
		WithConfigFile(path),
		WithFlags(map[string]any{"server.port": 3000}),
	)
	var cfg testConfig
	require.NoError(t, l.Load(&cfg))

	assert.Equal(t, 3000, cfg.Server.Port, "flags override env")
	assert.Equal(t, "env-host", cfg.Server.Host, "env overrides file")
	assert.Equal(t, "file-name", cfg.Greeting.DefaultName)
	assert.Contains(t, l.Keys(), "server.port")
}

func TestLoader_Reload(t *testing.T) {
	path := writeFile(t, "server:\n  port: 1000\n")
	l := NewLoader(WithConfigFile(path))

	var first testConfig
	require.NoError(t, l.Load(&first))
	assert.Equal(t, 1000, first.Server.Port)

	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 1001\n"), 0o644))

	var second testConfig
	require.NoError(t, l.Load(&second))
	assert.Equal(t, 1001, second.Server.Port)
}

func TestLoader_FailedReloadKeepsPreviousValues(t *testing.T) {
	path := writeFile(t, "server:\n  host: a\n")
	l := NewLoader(WithConfigFile(path))

	var cfg testConfig
	require.NoError(t, l.Load(&cfg))

	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed\n"), 0o644))
	assert.Error(t, l.Load(&cfg))
	assert.Contains(t, l.Keys(), "server.host")
}

func TestMapProvider(t *testing.T) {
	p := mapProvider{"server.port": 1, "log.level": "debug"}

	_, err := p.ReadBytes()
	assert.Error(t, err)

	m, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"server": map[string]any{"port": 1},
		"log":    map[string]any{"level": "debug"},
	}, m)
}
