package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	TokenFormatUUID = "uuid"
	TokenFormatJWT  = "jwt"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Auth     AuthConfig   `yaml:"auth"`
	CORS     CORSConfig   `yaml:"cors"`
	DataDir  string       `yaml:"data_dir"`
	LogLevel string       `yaml:"log_level"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// AuthConfig controls how registration tokens are minted
type AuthConfig struct {
	TokenFormat string `yaml:"token_format"` // uuid or jwt
	TokenSecret string `yaml:"token_secret"` // HMAC key for jwt tokens
}

// CORSConfig lists the origins allowed to call the API
type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         4000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Auth: AuthConfig{
			TokenFormat: TokenFormatUUID,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
		DataDir:  ".",
		LogLevel: "info",
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Values from a .env file and the environment override the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides overrides configuration with environment variables
func applyEnvOverrides(cfg *Config) error {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("%w: SERVER_PORT %q: %w", ErrInvalidConfig, port, err)
		}
		cfg.Server.Port = p
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := os.Getenv("TOKEN_FORMAT"); format != "" {
		cfg.Auth.TokenFormat = format
	}
	if secret := os.Getenv("TOKEN_SECRET"); secret != "" {
		cfg.Auth.TokenSecret = secret
	}
	return nil
}

// Validate reports settings the server cannot start with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is empty", ErrInvalidConfig)
	}
	switch c.Auth.TokenFormat {
	case TokenFormatUUID:
	case TokenFormatJWT:
		if c.Auth.TokenSecret == "" {
			return fmt.Errorf("%w: token_secret is required for jwt tokens", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown token_format %q", ErrInvalidConfig, c.Auth.TokenFormat)
	}
	return nil
}

// Addr returns the host:port the server listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
