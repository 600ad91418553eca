// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type GatewayConfig struct {
	Port      int    `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"` // HMAC secret for parent bearer tokens
}

type DatabaseConfig struct {
	// Store selects the status store implementation at startup:
	// "postgres" (default) or "memory" for the no-backing-store mode.
	// The choice is explicit configuration, never inferred at runtime.
	Store string `yaml:"store"`
	URL   string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	QueueKey string        `yaml:"queue_key"`
	ClaimTTL time.Duration `yaml:"claim_ttl"`
}

type StorageConfig struct {
	BaseURL         string        `yaml:"base_url"`    // Supabase project URL
	ServiceKey      string        `yaml:"service_key"` // used when the public fetch is refused
	DownloadTimeout time.Duration `yaml:"download_timeout"`
}

type OCRConfig struct {
	Provider        string `yaml:"provider"` // vision | off
	CredentialsFile string `yaml:"credentials_file"`
	Language        string `yaml:"language"` // BCP-47 hint for recognition
}

type BuilderConfig struct {
	Provider  string        `yaml:"provider"` // openai | gemini | demo
	OpenAIKey string        `yaml:"openai_key"`
	GeminiKey string        `yaml:"gemini_key"`
	GeminiURL string        `yaml:"gemini_url"`
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
	Age       int           `yaml:"age"` // learner age passed to the builder
}

type WorkerConfig struct {
	Count          int           `yaml:"count"`
	ExtractTimeout time.Duration `yaml:"extract_timeout"`
	BuildTimeout   time.Duration `yaml:"build_timeout"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Gateway  GatewayConfig  `yaml:"gateway"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	OCR      OCRConfig      `yaml:"ocr"`
	Builder  BuilderConfig  `yaml:"builder"`
	Worker   WorkerConfig   `yaml:"worker"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Gateway.Port <= 0 {
		cfg.Gateway.Port = 5000
	}
	if cfg.Database.Store == "" {
		cfg.Database.Store = "postgres"
	}
	if cfg.Redis.QueueKey == "" {
		cfg.Redis.QueueKey = "lesson:jobs"
	}
	if cfg.Redis.ClaimTTL <= 0 {
		cfg.Redis.ClaimTTL = 10 * time.Minute
	}
	if cfg.Storage.DownloadTimeout <= 0 {
		cfg.Storage.DownloadTimeout = 60 * time.Second
	}
	if cfg.OCR.Provider == "" {
		cfg.OCR.Provider = "off"
	}
	if cfg.OCR.Language == "" {
		cfg.OCR.Language = "fr"
	}
	if cfg.Builder.Provider == "" {
		switch {
		case cfg.Builder.OpenAIKey != "":
			cfg.Builder.Provider = "openai"
		case cfg.Builder.GeminiKey != "":
			cfg.Builder.Provider = "gemini"
		default:
			cfg.Builder.Provider = "demo"
		}
	}
	if cfg.Builder.Model == "" {
		cfg.Builder.Model = "gpt-4o-mini"
	}
	if cfg.Builder.Timeout <= 0 {
		cfg.Builder.Timeout = 120 * time.Second
	}
	if cfg.Builder.Age <= 0 {
		cfg.Builder.Age = 11
	}
	if cfg.Worker.Count <= 0 {
		cfg.Worker.Count = 2
	}
	if cfg.Worker.ExtractTimeout <= 0 {
		cfg.Worker.ExtractTimeout = 120 * time.Second
	}
	if cfg.Worker.BuildTimeout <= 0 {
		cfg.Worker.BuildTimeout = cfg.Builder.Timeout
	}
}

func (cfg *Config) validate() error {
	if cfg.Redis.URL == "" {
		return errors.New("redis.url is required")
	}
	switch cfg.Database.Store {
	case "postgres":
		if cfg.Database.URL == "" {
			return errors.New("database.url is required when database.store is postgres")
		}
	case "memory":
		// explicit no-backing-store mode, nothing to check
	default:
		return fmt.Errorf("unknown database.store %q (want postgres or memory)", cfg.Database.Store)
	}
	if cfg.Storage.BaseURL == "" {
		return errors.New("storage.base_url is required")
	}
	switch cfg.Builder.Provider {
	case "openai":
		if cfg.Builder.OpenAIKey == "" {
			return errors.New("builder.openai_key is required for the openai provider")
		}
	case "gemini":
		if cfg.Builder.GeminiKey == "" {
			return errors.New("builder.gemini_key is required for the gemini provider")
		}
	case "demo":
	default:
		return fmt.Errorf("unknown builder.provider %q", cfg.Builder.Provider)
	}
	switch cfg.OCR.Provider {
	case "vision", "off":
	default:
		return fmt.Errorf("unknown ocr.provider %q (want vision or off)", cfg.OCR.Provider)
	}
	return nil
}
