package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"smartserve/internal/fridge"
	"smartserve/internal/suggest"
)

// Config holds all server configuration
type Config struct {
	Server   ServerConfig           `yaml:"server"`
	Auth     AuthConfig             `yaml:"auth"`
	Database DatabaseConfig         `yaml:"database"`
	Forecast ForecastConfig         `yaml:"forecast"`
	Suggest  suggest.ProviderConfig `yaml:"suggest"`
	Fridge   fridge.Options         `yaml:"fridge"`
	LogLevel string                 `yaml:"log_level"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	MetricsPort int      `yaml:"metrics_port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// AuthConfig holds mock login settings
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// DatabaseConfig selects the gorm dialect and connection string
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// ForecastMode selects where forecasts are computed
type ForecastMode string

const (
	ForecastLocal  ForecastMode = "local"
	ForecastRemote ForecastMode = "remote"
)

// ForecastConfig holds forecasting service settings
type ForecastConfig struct {
	Mode    ForecastMode  `yaml:"mode"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file, fills in defaults and applies
// environment overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv loads a .env file outside production. A missing file is not an error.
func LoadDotEnv() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.MetricsPort == 0 {
		c.Server.MetricsPort = 9090
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = "smartserve-dev-secret"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite3"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = ":memory:"
	}
	if c.Forecast.Mode == "" {
		c.Forecast.Mode = ForecastLocal
	}
	if c.Forecast.Timeout == 0 {
		c.Forecast.Timeout = 10 * time.Second
	}
	if c.Suggest.Type == "" {
		c.Suggest.Type = suggest.GeminiProvider
	}
	if c.Suggest.Timeout == 0 {
		c.Suggest.Timeout = 60 * time.Second
	}

	d := fridge.DefaultOptions()
	if c.Fridge.Rows == 0 {
		c.Fridge.Rows = d.Rows
	}
	if c.Fridge.Cols == 0 {
		c.Fridge.Cols = d.Cols
	}
	if c.Fridge.MinItems == 0 && c.Fridge.MaxItems == 0 {
		c.Fridge.MinItems = d.MinItems
		c.Fridge.MaxItems = d.MaxItems
	}
	if c.Fridge.SessionTTL == 0 {
		c.Fridge.SessionTTL = d.SessionTTL
	}
	if c.Fridge.MaxSessions == 0 {
		c.Fridge.MaxSessions = d.MaxSessions
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ApplyEnv overrides secrets and endpoints from the environment
func (c *Config) ApplyEnv() {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("FORECAST_URL"); v != "" {
		c.Forecast.URL = v
	}

	switch c.Suggest.Type {
	case suggest.GeminiProvider:
		setIfEmpty(&c.Suggest.APIKey, os.Getenv("GEMINI_API_KEY"))
		setIfEmpty(&c.Suggest.Model, os.Getenv("GEMINI_MODEL"))
	case suggest.OpenAIProvider:
		setIfEmpty(&c.Suggest.APIKey, os.Getenv("OPENAI_API_KEY"))
	case suggest.AzureProvider:
		setIfEmpty(&c.Suggest.BaseURL, os.Getenv("AZURE_OPENAI_ENDPOINT"))
		setIfEmpty(&c.Suggest.APIKey, os.Getenv("AZURE_OPENAI_API_KEY"))
		setIfEmpty(&c.Suggest.Model, os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"))
	case suggest.GitHubProvider:
		setIfEmpty(&c.Suggest.APIKey, os.Getenv("GITHUB_TOKEN"))
	}
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

// Validate checks settings that have no sensible default
func (c *Config) Validate() error {
	switch c.Forecast.Mode {
	case ForecastLocal:
	case ForecastRemote:
		if c.Forecast.URL == "" {
			return fmt.Errorf("forecast.url is required in remote mode")
		}
	default:
		return fmt.Errorf("unknown forecast mode: %s", c.Forecast.Mode)
	}
	if err := c.Fridge.Validate(); err != nil {
		return fmt.Errorf("invalid fridge config: %w", err)
	}
	return nil
}
