package config

import (
	"fmt"
	"os"
	"time"

	"BotPull/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"oneof=development staging production"`

	Server struct {
		Port            int           `yaml:"port" default:"8090" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`

	Feed struct {
		// Bot dashboard endpoint; bare host:port expands to ws://host:port/ws.
		Endpoint         string        `yaml:"endpoint" default:"localhost:8765" validate:"required"`
		RetryDelay       time.Duration `yaml:"retry_delay" default:"3s" validate:"gt=0"`
		PingInterval     time.Duration `yaml:"ping_interval" default:"30s"`
		HandshakeTimeout time.Duration `yaml:"handshake_timeout" default:"5s" validate:"gt=0"`
	} `yaml:"feed"`

	Synthetic struct {
		Interval  time.Duration `yaml:"interval" default:"4s" validate:"gt=0"`
		BasePrice float64       `yaml:"base_price" default:"97000" validate:"gt=0"`
		Seed      int64         `yaml:"seed"` // 0 seeds from the clock
	} `yaml:"synthetic"`

	History struct {
		Capacity     int     `yaml:"capacity" default:"200" validate:"gt=0"`
		SeedBankroll float64 `yaml:"seed_bankroll" default:"1000" validate:"gt=0"`
	} `yaml:"history"`

	Logging struct {
		Level        string `yaml:"level" default:"info"`
		Format       string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output       string `yaml:"output" default:"stdout"`
		RingCapacity int    `yaml:"ring_capacity" default:"100" validate:"gt=0"`
	} `yaml:"logging"`

	RateLimit struct {
		Enabled   bool    `yaml:"enabled"`
		Burst     float64 `yaml:"burst" default:"10" validate:"gt=0"`
		PerSecond float64 `yaml:"per_second" default:"5" validate:"gt=0"`
	} `yaml:"rate_limit"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file, fills defaults, and
// validates the result. An empty path yields the pure-default config.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FEED_ENDPOINT"); v != "" {
		c.Feed.Endpoint = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("SYNTHETIC_BASE_PRICE"); v != "" {
		c.Synthetic.BasePrice = util.ParseFloatDefault(v, c.Synthetic.BasePrice)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}
	return nil
}
