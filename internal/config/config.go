package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingBackend is returned when no usable backend is configured and demo
// mode is off.
var ErrMissingBackend = errors.New("no backend configured: set SUPABASE_URL and SUPABASE_ANON_KEY, DATABASE_URL, or DEMO_MODE=true")

const (
	BackendPostgREST = "postgrest"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

// Config holds every setting of the service.
type Config struct {
	Port           string        `yaml:"port"`
	Backend        string        `yaml:"backend"`
	SupabaseURL    string        `yaml:"supabase_url"`
	SupabaseKey    string        `yaml:"supabase_key"`
	DatabaseURL    string        `yaml:"database_url"`
	DemoMode       bool          `yaml:"demo_mode"`
	GeminiAPIKey   string        `yaml:"gemini_api_key"`
	GeminiModel    string        `yaml:"gemini_model"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	CORSOrigins    []string      `yaml:"cors_origins"`
}

// Default returns the settings used before any file or environment is read.
func Default() Config {
	return Config{
		Port:           "8081",
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Load reads .env (if present), the YAML file named by CONFIG_FILE (if set) and
// the environment, in that order, then validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}

	str(&c.Port, "PORT")
	str(&c.Backend, "BACKEND")
	str(&c.SupabaseURL, "SUPABASE_URL", "VITE_SUPABASE_URL")
	str(&c.SupabaseKey, "SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY")
	str(&c.DatabaseURL, "DATABASE_URL")
	str(&c.GeminiAPIKey, "GEMINI_API_KEY", "API_KEY")
	str(&c.GeminiModel, "GEMINI_MODEL")
	str(&c.LogLevel, "LOG_LEVEL")
	str(&c.LogFormat, "LOG_FORMAT")

	if v := getenv("DEMO_MODE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEMO_MODE: %w", err)
		}
		c.DemoMode = b
	}
	if v := getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = d
	}
	if v := getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
	return nil
}

// Validate resolves the backend. An explicit BACKEND must have its settings;
// otherwise the backend is inferred from whichever credentials are present,
// and the in-memory store is only used in demo mode.
func (c *Config) Validate() error {
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}

	switch c.Backend {
	case BackendPostgREST:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("backend %s: %w", c.Backend, ErrMissingBackend)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("backend %s: %w", c.Backend, ErrMissingBackend)
		}
	case BackendMemory:
		if !c.DemoMode {
			return fmt.Errorf("backend memory requires DEMO_MODE=true")
		}
	case "":
		switch {
		case c.SupabaseURL != "" && c.SupabaseKey != "":
			c.Backend = BackendPostgREST
		case c.DatabaseURL != "":
			c.Backend = BackendPostgres
		case c.DemoMode:
			c.Backend = BackendMemory
		default:
			return ErrMissingBackend
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}
