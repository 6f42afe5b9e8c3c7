package main

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/stellarsignal/orbitwatch/model"
)

// Config is the full configuration surface of the tracker, loaded from
// config file, environment, and flags via viper and checked with
// struct-tag validation before anything starts.
type Config struct {
	DataSource  string `mapstructure:"data_source" validate:"required,oneof=active debris recent-launches weather stations"`
	DataBaseURL string `mapstructure:"data_base_url" validate:"required,url"`

	ListenAddr string `mapstructure:"listen_addr" validate:"required,hostname_port"`

	TickMillis         int     `mapstructure:"tick_millis" validate:"gte=1,lte=10000"`
	TrailWindowSeconds int     `mapstructure:"trail_window_seconds" validate:"gte=1,lte=3600"`
	HoverRadiusPx      float64 `mapstructure:"hover_radius_px" validate:"gt=0,lte=500"`
	RefreshSeconds     int     `mapstructure:"refresh_seconds" validate:"gte=5,lte=86400"`

	ViewWidth  float64 `mapstructure:"view_width" validate:"gte=100,lte=8192"`
	ViewHeight float64 `mapstructure:"view_height" validate:"gte=100,lte=8192"`

	Logging struct {
		Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
		Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
	} `mapstructure:"logging"`
}

func setConfigDefaults() {
	viper.SetDefault("data_source", "active")
	viper.SetDefault("data_base_url", "https://celestrak.org/NORAD")
	viper.SetDefault("listen_addr", "localhost:8080")
	viper.SetDefault("tick_millis", 33)
	viper.SetDefault("trail_window_seconds", 90)
	viper.SetDefault("hover_radius_px", 20)
	viper.SetDefault("refresh_seconds", 300)
	viper.SetDefault("view_width", 1280)
	viper.SetDefault("view_height", 720)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}

// loadConfig unmarshals and validates the effective viper configuration.
func loadConfig() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Source resolves the configured data source; loadConfig already
// guaranteed the string is one of the known values.
func (c *Config) Source() model.DataSource {
	src, _ := model.ParseDataSource(c.DataSource)
	return src
}

// Tick returns the tick interval as a duration.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

// TrailWindow returns the trail retention window as a duration.
func (c *Config) TrailWindow() time.Duration {
	return time.Duration(c.TrailWindowSeconds) * time.Second
}

// RefreshInterval returns the dataset refresh cadence as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}
