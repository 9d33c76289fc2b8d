package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Data backends
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Redis       RedisConfig
	Upload      UploadConfig
	Log         LogConfig
	DataBackend string
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port int
	Mode string // gin mode: debug, release or test
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DBName       string
	SSLMode      string
	TestDBName   string // Separate database for testing
	MaxOpenConns int
	MaxIdleConns int
}

// AuthConfig holds the authentication configuration
type AuthConfig struct {
	JWTSecret   string
	TokenExpiry time.Duration
}

// RedisConfig configures the summary cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// UploadConfig holds receipt image storage settings
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string // text or json
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() *Config {
	return fromViper(newViper())
}

// Load reads the optional config file at path, then applies environment overrides.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v), nil
}

// newViper maps dotted keys onto the environment, e.g. db.host -> DB_HOST.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.username", "postgres")
	v.SetDefault("db.password", "password")
	v.SetDefault("db.name", "finance")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("test_db.name", "finance_test")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 5)

	v.SetDefault("jwt.secret", "your-secret-key-here")
	v.SetDefault("jwt.expiry_hours", 24)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("summary.cache_ttl", 5*time.Minute)

	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_bytes", 10<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.backend", BackendPostgres)
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port: v.GetInt("server.port"),
			Mode: v.GetString("server.mode"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("db.host"),
			Port:         v.GetInt("db.port"),
			Username:     v.GetString("db.username"),
			Password:     v.GetString("db.password"),
			DBName:       v.GetString("db.name"),
			SSLMode:      v.GetString("db.sslmode"),
			TestDBName:   v.GetString("test_db.name"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
			MaxIdleConns: v.GetInt("db.max_idle_conns"),
		},
		Auth: AuthConfig{
			JWTSecret:   v.GetString("jwt.secret"),
			TokenExpiry: time.Duration(v.GetInt("jwt.expiry_hours")) * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("summary.cache_ttl"),
		},
		Upload: UploadConfig{
			Dir:      v.GetString("upload.dir"),
			MaxBytes: v.GetInt64("upload.max_bytes"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		DataBackend: v.GetString("data.backend"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Server.Port))
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Sprintf("invalid server mode '%s': must be debug, release or test", c.Server.Mode))
	}

	switch c.DataBackend {
	case BackendPostgres, BackendMemory:
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]",
			c.DataBackend, BackendPostgres, BackendMemory))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, "JWT secret cannot be empty")
	}
	if c.Auth.TokenExpiry <= 0 {
		errs = append(errs, "token expiry must be positive")
	}

	if c.Upload.Dir == "" {
		errs = append(errs, "upload directory cannot be empty")
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, fmt.Sprintf("invalid upload limit %d: must be positive", c.Upload.MaxBytes))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be text or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
