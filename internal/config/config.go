package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	PageSize    int           `mapstructure:"page_size"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	Cache       CacheConfig   `mapstructure:"cache"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

type CacheConfig struct {
	StaleTTL        time.Duration `mapstructure:"stale_ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	MaxRetries      uint          `mapstructure:"max_retries"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"`
}

type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

// Load reads tickmate.yml when present and overlays TICKMATE_*
// environment variables on top of the defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("page_size", 6)
	v.SetDefault("http_timeout", 15*time.Second)
	v.SetDefault("cache.stale_ttl", 30*time.Second)
	v.SetDefault("cache.refresh_interval", 30*time.Second)
	v.SetDefault("cache.max_retries", 1)
	v.SetDefault("cache.sweep_interval", time.Minute)
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.file", "tickmate.log")

	v.SetConfigName("tickmate")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TICKMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading tickmate.yml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1, got %d", c.PageSize)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q is not an absolute URL", c.BaseURL)
	}
	return nil
}
