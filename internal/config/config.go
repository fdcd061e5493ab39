// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"log/slog"

	"github.com/spf13/viper"
)

// Config holds configuration values sourced from environment variables.
type Config struct {
	Env           string `mapstructure:"APP_ENV"`
	Port          string `mapstructure:"PORT"`
	DBURL         string `mapstructure:"DB_URL"`
	DBName        string `mapstructure:"DB_NAME"`
	SessionSecret string `mapstructure:"SECRET"`
	MapboxToken   string `mapstructure:"MAPBOX_TOKEN"`
	GeocoderURL   string `mapstructure:"GEOCODER_URL"`
}

// Load reads configuration from the environment with safe local defaults.
func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("DB_URL", "mongodb://127.0.0.1:27017")
	viper.SetDefault("DB_NAME", "camper")
	viper.SetDefault("SECRET", "confidentialtext!")
	viper.SetDefault("MAPBOX_TOKEN", "")
	viper.SetDefault("GEOCODER_URL", "https://api.mapbox.com")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that must not reach production.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SessionSecret == "" {
		return errors.New("SECRET is required")
	}

	if c.Env == "production" || c.Env == "prod" {
		if c.SessionSecret == "confidentialtext!" {
			return errors.New("SECRET must be changed from the default value in production")
		}
		if c.MapboxToken == "" {
			return errors.New("MAPBOX_TOKEN is required in production")
		}
	} else if c.MapboxToken == "" {
		slog.Warn("MAPBOX_TOKEN is empty; geocoding requests will fail")
	}

	return nil
}
