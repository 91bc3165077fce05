package blogclient

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

// Config mirrors the platform's environment settings
type Config struct {
	BaseURL        string        `env:"BLOG_API_URL"`
	APIVersion     string        `env:"BLOG_API_VERSION"`
	UseMockData    bool          `env:"BLOG_USE_MOCK_DATA"`
	EnableLogging  bool          `env:"BLOG_ENABLE_LOGGING"`
	RequestTimeout time.Duration `env:"BLOG_REQUEST_TIMEOUT"`
}

// UnmarshalYAML merges file values over whatever the Config already holds,
// so absent keys keep their defaults. Durations use the "30s"/"2m" string
// form.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	raw := struct {
		BaseURL        string `yaml:"api_url"`
		APIVersion     string `yaml:"api_version"`
		UseMockData    *bool  `yaml:"use_mock_data"`
		EnableLogging  *bool  `yaml:"enable_logging"`
		RequestTimeout string `yaml:"request_timeout"`
	}{}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.BaseURL != "" {
		c.BaseURL = raw.BaseURL
	}
	if raw.APIVersion != "" {
		c.APIVersion = raw.APIVersion
	}
	if raw.UseMockData != nil {
		c.UseMockData = *raw.UseMockData
	}
	if raw.EnableLogging != nil {
		c.EnableLogging = *raw.EnableLogging
	}
	if raw.RequestTimeout != "" {
		timeout, err := time.ParseDuration(raw.RequestTimeout)
		if err != nil {
			return err
		}
		c.RequestTimeout = timeout
	}

	return nil
}

// DefaultConfig returns the development defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:3000/api",
		APIVersion:     "v1",
		RequestTimeout: 30 * time.Second,
	}
}

// LoadConfig reads a YAML config file and applies environment overrides on
// top of it. A missing file is not an error; the defaults plus environment
// are used instead.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read config file")
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse config file")
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse environment config")
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	return cfg, nil
}
