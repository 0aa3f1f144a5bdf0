package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort    = 4100
	defaultEnv     = "development"
	defaultDataDir = "data"

	// StorageDriverFile keeps all keys in plain files under the data dir.
	StorageDriverFile = "file"
	// StorageDriverRedis keeps all keys in a Redis instance.
	StorageDriverRedis = "redis"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int           `yaml:"port"`
	Env            string        `yaml:"env"` // "development" | "production"
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Timezone       string        `yaml:"timezone"`
	LogDir         string        `yaml:"log_dir"`
	Storage        StorageConfig `yaml:"storage"`
	AI             AIConfig      `yaml:"ai"`
}

// StorageConfig selects and parameterizes the key-value storage backend.
type StorageConfig struct {
	Driver   string `yaml:"driver"` // "file" | "redis"
	DataDir  string `yaml:"data_dir"`
	RedisURL string `yaml:"redis_url"`
}

// AIConfig lists the configured generation providers.
type AIConfig struct {
	Providers []AIProvider `yaml:"providers"`
	// DraftingModel optionally pins drafting to a provider/model pair;
	// otherwise the first enabled provider and its default model are used.
	DraftingModel *AIModelAssignment `yaml:"drafting_model,omitempty"`
}

// AIProvider describes one generation provider account.
type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic | OpenRouter
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

// AIModelAssignment pins an operation to a provider and model.
type AIModelAssignment struct {
	ProviderID string `yaml:"provider_id"`
	Model      string `yaml:"model"`
}

// Load reads and normalizes the YAML config file. A missing file yields the
// defaults so the server can start on a fresh checkout.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && path == DefaultConfigPath:
		// fresh checkout, run on defaults
	default:
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) normalize() {
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = defaultPort
	}
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = defaultEnv
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverFile
	}
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		c.Storage.DataDir = defaultDataDir
	}
}

// IsDev reports whether the server runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// Validate rejects configurations the server cannot start with.
func (c *AppConfig) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverFile:
	case StorageDriverRedis:
		if strings.TrimSpace(c.Storage.RedisURL) == "" {
			return fmt.Errorf("config: storage driver %q requires redis_url", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

// TimezoneLocation parses the configured timezone: an IANA zone name or a
// fixed UTC offset like "+08:00". Empty means the process default.
func (c *AppConfig) TimezoneLocation() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" {
		return time.Local, nil
	}
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}
	if len(tz) == 6 && (tz[0] == '+' || tz[0] == '-') && tz[3] == ':' {
		h, errH := strconv.Atoi(tz[1:3])
		m, errM := strconv.Atoi(tz[4:6])
		if errH == nil && errM == nil && h <= 23 && m <= 59 {
			offset := h*3600 + m*60
			if tz[0] == '-' {
				offset = -offset
			}
			return time.FixedZone(tz, offset), nil
		}
	}
	return nil, fmt.Errorf("config: invalid timezone %q: expect IANA zone (e.g. Europe/Oslo) or UTC offset (e.g. +08:00)", tz)
}
