package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. SITECRAWLER_MAX_URLS.
const EnvPrefix = "SITECRAWLER"

// Config holds the crawl settings shared by the CLI commands.
type Config struct {
	MaxDepth    int           `mapstructure:"max_depth"`
	MaxURLs     int           `mapstructure:"max_urls"`
	Delay       time.Duration `mapstructure:"delay"`
	Workers     int           `mapstructure:"workers"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	Pacing      string        `mapstructure:"pacing"`
	RPS         float64       `mapstructure:"rps"`
	Keyword     string        `mapstructure:"keyword"`
	Format      string        `mapstructure:"format"`
	LogLevel    string        `mapstructure:"log_level"`
	MetricsFile string        `mapstructure:"metrics_file"`
}

// Load layers defaults, an optional YAML/JSON/TOML file at path and
// SITECRAWLER_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the ranges required by a crawl.
func (c *Config) Validate() error {
	var errs []error

	if c.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("max_depth must be >= 1, got %d", c.MaxDepth))
	}

	if c.MaxURLs < 1 {
		errs = append(errs, fmt.Errorf("max_urls must be >= 1, got %d", c.MaxURLs))
	}

	if c.Delay < 0 {
		errs = append(errs, fmt.Errorf("delay must not be negative, got %s", c.Delay))
	}

	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("max_depth", 2)
	v.SetDefault("max_urls", 100)
	v.SetDefault("delay", time.Second)
	v.SetDefault("workers", 1)
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("user_agent", "")
	v.SetDefault("pacing", "fixed")
	v.SetDefault("rps", 0.0)
	v.SetDefault("keyword", "")
	v.SetDefault("format", "json")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_file", "")
}
