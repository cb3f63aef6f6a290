package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

/* Config holds everything the connector reads from .env or the environment
 * Environment variables win over the file, the file is optional
 */
type Config struct {
	Port               string `mapstructure:"PORT" validate:"required"`
	PublicURL          string `mapstructure:"PUBLIC_URL" validate:"required,url"`
	SalesSuiteBaseURL  string `mapstructure:"SALESSUITE_BASE_URL" validate:"omitempty,url"`
	SalesSuiteAPIKey   string `mapstructure:"SALESSUITE_API_KEY" validate:"required"`
	RedisAddr          string `mapstructure:"REDIS_ADDR" validate:"required,hostname_port"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int    `mapstructure:"REDIS_DB" validate:"gte=0"`
	RoutesFile         string `mapstructure:"ROUTES_FILE"`
	DeleteAttempts     int    `mapstructure:"DELETE_ATTEMPTS" validate:"gte=1"`
	DeleteBackoffMS    int    `mapstructure:"DELETE_BACKOFF_MS" validate:"gte=0"`
	HTTPTimeoutSeconds int    `mapstructure:"HTTP_TIMEOUT_SECONDS" validate:"gte=1"`
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"PUBLIC_URL":           "",
	"SALESSUITE_BASE_URL":  "",
	"SALESSUITE_API_KEY":   "",
	"REDIS_ADDR":           "localhost:6379",
	"REDIS_PASSWORD":       "",
	"REDIS_DB":             0,
	"ROUTES_FILE":          "routes.yaml",
	"DELETE_ATTEMPTS":      3,
	"DELETE_BACKOFF_MS":    500,
	"HTTP_TIMEOUT_SECONDS": 30,
}

func GetConfig() (*Config, error) {
	return Load(".")
}

// Load reads .env from dir, overlays the environment and validates the result
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	err = v.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

func (c *Config) DeleteBackoff() time.Duration {
	return time.Duration(c.DeleteBackoffMS) * time.Millisecond
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}
