// Package config loads service configuration from defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Database providers accepted by DATABASE_PROVIDER.
const (
	ProviderPostgres = "postgresql"
	ProviderMemory   = "memory"
)

// Config is the full service configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Server   ServerConfig   `yaml:"server"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	NATS     NATSConfig     `yaml:"nats"`
	CORS     CORSConfig     `yaml:"cors"`
	LogLevel string         `yaml:"log_level"`
}

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type GRPCConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Provider    string        `yaml:"provider"`
	URL         string        `yaml:"url"`
	MaxConns    int32         `yaml:"max_conns"`
	MinConns    int32         `yaml:"min_conns"`
	MaxConnTime time.Duration `yaml:"max_conn_time"`
	MaxIdleTime time.Duration `yaml:"max_idle_time"`
	HealthCheck time.Duration `yaml:"health_check"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	Disabled  bool          `yaml:"disabled"`
}

type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "lit-backoffice",
			Version:     "dev",
			Environment: "development",
		},
		Server: ServerConfig{
			Port:            5001,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		GRPC: GRPCConfig{Port: 9095},
		Database: DatabaseConfig{
			Provider:    ProviderPostgres,
			MaxConns:    10,
			MinConns:    1,
			MaxConnTime: time.Hour,
			MaxIdleTime: 15 * time.Minute,
			HealthCheck: time.Minute,
		},
		Auth: AuthConfig{TokenTTL: 12 * time.Hour},
		NATS: NATSConfig{SubjectPrefix: "backoffice"},
		CORS: CORSConfig{Origins: []string{"*"}},
	}
}

// Load builds the configuration. The YAML file named by CONFIG_FILE is
// optional; a missing file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Service.Environment = envOrDefault("NODE_ENV", cfg.Service.Environment)
	cfg.Service.Version = envOrDefault("SERVICE_VERSION", cfg.Service.Version)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)

	cfg.Server.Port = envInt("PORT", cfg.Server.Port)
	cfg.GRPC.Port = envInt("GRPC_PORT", cfg.GRPC.Port)

	cfg.Database.Provider = strings.ToLower(envOrDefault("DATABASE_PROVIDER", cfg.Database.Provider))
	cfg.Database.URL = envOrDefault("DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxConns = int32(envInt("DB_MAX_CONNS", int(cfg.Database.MaxConns)))
	cfg.Database.MinConns = int32(envInt("DB_MIN_CONNS", int(cfg.Database.MinConns)))

	cfg.Auth.JWTSecret = envOrDefault("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.TokenTTL = time.Duration(envInt("JWT_TTL_HOURS", int(cfg.Auth.TokenTTL.Hours()))) * time.Hour
	cfg.Auth.Disabled = envBool("AUTH_DISABLED", cfg.Auth.Disabled)

	cfg.NATS.URL = envOrDefault("NATS_URL", cfg.NATS.URL)
	cfg.CORS.Origins = envCSV("CORS_ORIGINS", cfg.CORS.Origins)
}

// IsDevelopment reports whether destructive tooling and relaxed auth are
// allowed.
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.Service.Environment) {
	case "development", "dev", "local", "test":
		return true
	}
	return false
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.Database.Provider {
	case ProviderPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for provider %q", ProviderPostgres)
		}
	case ProviderMemory:
	default:
		return fmt.Errorf("unsupported DATABASE_PROVIDER %q", c.Database.Provider)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if !c.IsDevelopment() {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in %s", c.Service.Environment)
		}
		if c.Auth.Disabled {
			return fmt.Errorf("AUTH_DISABLED is only allowed in development")
		}
	}
	return nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	out := make([]string, 0)
	for _, v := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
