// Package config loads service settings from an optional YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	AI       AIConfig       `yaml:"ai"`
	Render   RenderConfig   `yaml:"render"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	BodyLimitMB     int           `yaml:"body_limit_mb"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// AIConfig selects the generator: "service" (internal ai-service) or
// "openai".
type AIConfig struct {
	Provider   string `yaml:"provider"`
	ServiceURL string `yaml:"service_url"`
	OpenAIKey  string `yaml:"openai_api_key"`
	Model      string `yaml:"model"`
	Language   string `yaml:"language"`
}

type RenderConfig struct {
	ChromePath   string `yaml:"chrome_path"`
	TemplatesDir string `yaml:"templates_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

const (
	ProviderService = "service"
	ProviderOpenAI  = "openai"
)

func defaults() Config {
	return Config{
		Server: ServerConfig{Port: "3000", BodyLimitMB: 10, ShutdownTimeout: 10 * time.Second},
		AI:     AIConfig{Provider: ProviderService, ServiceURL: "http://ai-service:8000"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the file named by CONFIG_FILE (default config.yaml). A missing
// file is not an error; the defaults and environment are used instead.
func Load() (Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	cfg := defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Server.Port, "PORT")
	set(&cfg.Database.URL, "JOBS_DATABASE_URL")
	set(&cfg.AI.Provider, "AI_PROVIDER")
	set(&cfg.AI.ServiceURL, "AI_SERVICE_URL")
	set(&cfg.AI.OpenAIKey, "OPENAI_API_KEY")
	set(&cfg.AI.Model, "OPENAI_MODEL")
	set(&cfg.Render.ChromePath, "CHROME_PATH")
	set(&cfg.Render.TemplatesDir, "TEMPLATES_DIR")
	set(&cfg.Log.Level, "LOG_LEVEL")
}

func (c Config) validate() error {
	switch strings.ToLower(c.AI.Provider) {
	case ProviderService:
	case ProviderOpenAI:
		if c.AI.OpenAIKey == "" {
			return errors.New("config: ai provider openai needs OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("config: unknown ai provider %q", c.AI.Provider)
	}
	if c.Server.Port == "" {
		return errors.New("config: empty server port")
	}
	return nil
}

// SlogLevel maps the configured level name; unknown names mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
