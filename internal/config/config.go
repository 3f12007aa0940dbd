package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig  `mapstructure:"server" yaml:"server"`
	Logging       LoggingConfig `mapstructure:"logging" yaml:"logging"`
	TMDB          TMDBConfig    `mapstructure:"tmdb" yaml:"tmdb"`
	Search        SearchConfig  `mapstructure:"search" yaml:"search"`
	Session       SessionConfig `mapstructure:"session" yaml:"session"`
	Sentry        SentryConfig  `mapstructure:"sentry" yaml:"sentry"`
	DeveloperMode bool          `mapstructure:"developer_mode" yaml:"developer_mode"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey          string `mapstructure:"api_key" yaml:"api_key"`
	ReadAccessToken string `mapstructure:"read_access_token" yaml:"read_access_token"`
	BaseURL         string `mapstructure:"base_url" yaml:"base_url"`
	ImageBaseURL    string `mapstructure:"image_base_url" yaml:"image_base_url"`
	PosterSize      string `mapstructure:"poster_size" yaml:"poster_size"`
	Timeout         int    `mapstructure:"timeout" yaml:"timeout"` // seconds
	Language        string `mapstructure:"language" yaml:"language"`
	IncludeAdult    bool   `mapstructure:"include_adult" yaml:"include_adult"`
}

// SearchConfig holds result processing configuration.
type SearchConfig struct {
	PageSize      int           `mapstructure:"page_size" yaml:"page_size"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout" yaml:"lookup_timeout"`
}

// SessionConfig holds browser session configuration.
type SessionConfig struct {
	Secret      string        `mapstructure:"secret" yaml:"secret"`
	CookieName  string        `mapstructure:"cookie_name" yaml:"cookie_name"`
	TTL         time.Duration `mapstructure:"ttl" yaml:"ttl"`
	MaxSessions int           `mapstructure:"max_sessions" yaml:"max_sessions"`
	Secure      bool          `mapstructure:"secure" yaml:"secure"`
}

// SentryConfig holds error reporting configuration. Reporting is off when DSN is empty.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn" yaml:"dsn"`
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		TMDB: TMDBConfig{
			APIKey:       EmbeddedTMDBKey,
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			PosterSize:   "w400",
			Timeout:      10,
			Language:     "en-US",
		},
		Search: SearchConfig{
			PageSize:      5,
			LookupTimeout: 10 * time.Second,
		},
		Session: SessionConfig{
			CookieName:  "reelscout-session",
			TTL:         30 * time.Minute,
			MaxSessions: 1000,
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	// A missing .env is not an error.
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.reelscout")
	}

	v.SetEnvPrefix("REELSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("tmdb.api_key", d.TMDB.APIKey)
	v.SetDefault("tmdb.read_access_token", "")
	v.SetDefault("tmdb.base_url", d.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base_url", d.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.poster_size", d.TMDB.PosterSize)
	v.SetDefault("tmdb.timeout", d.TMDB.Timeout)
	v.SetDefault("tmdb.language", d.TMDB.Language)
	v.SetDefault("tmdb.include_adult", false)

	v.SetDefault("search.page_size", d.Search.PageSize)
	v.SetDefault("search.lookup_timeout", d.Search.LookupTimeout)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.cookie_name", d.Session.CookieName)
	v.SetDefault("session.ttl", d.Session.TTL)
	v.SetDefault("session.max_sessions", d.Session.MaxSessions)
	v.SetDefault("session.secure", false)

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "")

	v.SetDefault("developer_mode", false)
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Search.PageSize <= 0 {
		return fmt.Errorf("search.page_size must be positive, got %d", c.Search.PageSize)
	}
	if c.Search.LookupTimeout <= 0 {
		return fmt.Errorf("search.lookup_timeout must be positive, got %s", c.Search.LookupTimeout)
	}
	return nil
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, fmt.Sprintf("%d", c.Port))
}

// YAML renders the effective configuration with secrets redacted.
func (c *Config) YAML() (string, error) {
	redacted := *c
	redacted.TMDB.APIKey = redact(c.TMDB.APIKey)
	redacted.TMDB.ReadAccessToken = redact(c.TMDB.ReadAccessToken)
	redacted.Session.Secret = redact(c.Session.Secret)
	redacted.Sentry.DSN = redact(c.Sentry.DSN)

	out, err := yaml.Marshal(&redacted)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(out), nil
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
