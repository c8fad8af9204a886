package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "sqlite", cfg.Cases.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoaderFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  http_port: 9000
  shutdown_timeout: 5s
cases:
  backend: redis
redis:
  addr: redis.internal:6379
  key_prefix: "va:"
storage:
  orders_dir: /var/lib/voiceagents
  wellness_dir: /var/lib/voiceagents
log:
  level: debug
`), 0644))

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "redis", cfg.Cases.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, "va:", cfg.Redis.KeyPrefix)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestLoaderMissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath("/nonexistent/config.yaml").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoaderEnvOverrides(t *testing.T) {
	t.Setenv("VOICEAGENTS_SERVER_HTTP_PORT", "7070")
	t.Setenv("VOICEAGENTS_CASES_BACKEND", "memory")
	t.Setenv("VOICEAGENTS_DATABASE_CONN_MAX_LIFETIME", "90s")
	t.Setenv("VOICEAGENTS_LOG_OUTPUT_PATHS", "stdout, /var/log/voiceagents.log")
	t.Setenv("VOICEAGENTS_LOG_ENABLE_CALLER", "false")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, "memory", cfg.Cases.Backend)
	assert.Equal(t, 90*time.Second, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, []string{"stdout", "/var/log/voiceagents.log"}, cfg.Log.OutputPaths)
	assert.False(t, cfg.Log.EnableCaller)
}

func TestLoaderEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_port: 9000\n"), 0644))
	t.Setenv("VOICEAGENTS_SERVER_HTTP_PORT", "9001")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Server.HTTPPort)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }, "invalid HTTP port"},
		{"bad backend", func(c *Config) { c.Cases.Backend = "etcd" }, "unknown cases backend"},
		{"empty orders dir", func(c *Config) { c.Storage.OrdersDir = "" }, "orders_dir"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoaderCustomValidator(t *testing.T) {
	_, err := NewLoader().
		WithValidator(func(c *Config) error {
			if c.Redis.KeyPrefix == "voiceagents:" {
				return assert.AnError
			}
			return nil
		}).
		Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db.internal", Port: 5432,
		User: "svc", Password: "secret", Name: "cases", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.internal port=5432 user=svc password=secret dbname=cases sslmode=require",
		d.DSN("postgres"))
	assert.Equal(t,
		"svc:secret@tcp(db.internal:5432)/cases?parseTime=true",
		d.DSN("mysql"))
	assert.Equal(t, "cases", d.DSN("sqlite"))
	assert.Equal(t, "", d.DSN("oracle"))
}
