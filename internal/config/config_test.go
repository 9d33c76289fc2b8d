package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Server:      ServerConfig{Port: 8080, Mode: "release"},
		Auth:        AuthConfig{JWTSecret: "secret", TokenExpiry: time.Hour},
		Upload:      UploadConfig{Dir: "uploads", MaxBytes: 1 << 20},
		Log:         LogConfig{Level: "info", Format: "text"},
		DataBackend: BackendPostgres,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid postgres config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid memory config",
			mutate: func(c *Config) { c.DataBackend = BackendMemory },
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Server.Port = 0 },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Server.Port = 70000 },
			wantErr:     true,
			errorString: "invalid port 70000",
		},
		{
			name:        "unknown server mode",
			mutate:      func(c *Config) { c.Server.Mode = "production" },
			wantErr:     true,
			errorString: "invalid server mode 'production'",
		},
		{
			name:        "unknown backend",
			mutate:      func(c *Config) { c.DataBackend = "mongo" },
			wantErr:     true,
			errorString: "invalid data backend 'mongo'",
		},
		{
			name:        "empty jwt secret",
			mutate:      func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr:     true,
			errorString: "JWT secret cannot be empty",
		},
		{
			name:        "non-positive upload limit",
			mutate:      func(c *Config) { c.Upload.MaxBytes = 0 },
			wantErr:     true,
			errorString: "invalid upload limit 0",
		},
		{
			name:        "bad log format",
			mutate:      func(c *Config) { c.Log.Format = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, BackendPostgres, cfg.DataBackend)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("TEST_DB_NAME", "ft_test")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SUMMARY_CACHE_TTL", "30s")
	t.Setenv("DATA_BACKEND", "memory")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "ft_test", cfg.Database.TestDBName)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, BackendMemory, cfg.DataBackend)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: 7070\nupload:\n  dir: /tmp/receipts\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/tmp/receipts", cfg.Upload.Dir)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: 1, Username: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.GetDSN())
}
