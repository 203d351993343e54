// Package config loads ls-nightwatch settings.
//
// Layers, lowest precedence first: built-in defaults, a YAML file
// (--config or ./nightwatch.yaml), a .env file, NIGHTWATCH_* environment
// variables, then any command-line flags bound to the viper instance.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/sky"
)

// EnvPrefix prefixes every environment override, e.g. NIGHTWATCH_LOCATION_LATITUDE.
const EnvPrefix = "NIGHTWATCH"

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "nightwatch"

// ConfigErrorType classifies a ConfigError.
type ConfigErrorType string

const (
	ErrParsing    ConfigErrorType = "parsing"
	ErrValidation ConfigErrorType = "validation"
)

// ConfigError reports why settings could not be loaded.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config is the full settings tree.
type Config struct {
	Location LocationConfig `mapstructure:"location"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

type LocationConfig struct {
	Latitude   float64 `mapstructure:"latitude" validate:"min=-90,max=90"`
	Longitude  float64 `mapstructure:"longitude" validate:"min=-180,max=180"`
	ElevationM float64 `mapstructure:"elevation_m" validate:"min=-500"`
	Timezone   string  `mapstructure:"timezone"`
	Name       string  `mapstructure:"name"`
}

type ForecastConfig struct {
	Nights     int             `mapstructure:"nights" validate:"min=1,max=30"`
	Workers    int             `mapstructure:"workers" validate:"min=1,max=64"`
	MaxObjects int             `mapstructure:"max_objects" validate:"min=1,max=500"`
	MinScore   float64         `mapstructure:"min_score" validate:"min=0,max=200"`
	Magnitude  MagnitudeLimits `mapstructure:"magnitude"`
	MoonModel  string          `mapstructure:"moon_model" validate:"oneof=estimate ephemeris"`
	StartDate  string          `mapstructure:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// MagnitudeLimits drop objects fainter than the limit for their category.
type MagnitudeLimits struct {
	Planet   float64 `mapstructure:"planet"`
	DSO      float64 `mapstructure:"dso"`
	Comet    float64 `mapstructure:"comet"`
	Asteroid float64 `mapstructure:"asteroid"`
}

type WeatherConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=none openmeteo file"`
	File     string        `mapstructure:"file" validate:"required_if=Provider file"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type CatalogConfig struct {
	File string `mapstructure:"file"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	workers := runtime.NumCPU()
	if workers > 64 {
		workers = 64
	}

	v.SetDefault("location.latitude", 51.4769)
	v.SetDefault("location.longitude", -0.0005)
	v.SetDefault("location.elevation_m", 0)
	v.SetDefault("location.timezone", "")
	v.SetDefault("location.name", "Greenwich")

	v.SetDefault("forecast.nights", 7)
	v.SetDefault("forecast.workers", workers)
	v.SetDefault("forecast.max_objects", 20)
	v.SetDefault("forecast.min_score", 0)
	v.SetDefault("forecast.magnitude.planet", 6)
	v.SetDefault("forecast.magnitude.dso", 12)
	v.SetDefault("forecast.magnitude.comet", 12)
	v.SetDefault("forecast.magnitude.asteroid", 12)
	v.SetDefault("forecast.moon_model", "estimate")
	v.SetDefault("forecast.start_date", "")

	v.SetDefault("weather.provider", "none")
	v.SetDefault("weather.file", "")
	v.SetDefault("weather.timeout", "10s")

	v.SetDefault("catalog.file", "")
	v.SetDefault("server.addr", ":8047")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// NewViper returns a viper instance with defaults and environment binding
// applied. Callers may bind flags to it before LoadFrom.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads settings from path (or ./nightwatch.yaml when empty).
func Load(path string) (*Config, error) {
	return LoadFrom(NewViper(), path)
}

// LoadFrom reads settings into v from path and validates them.
func LoadFrom(v *viper.Viper, path string) (*Config, error) {
	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, &ConfigError{Type: ErrParsing, Message: "failed to read config file", Err: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Type: ErrParsing, Message: "failed to decode configuration", Err: err}
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Forecast.MoonModel = strings.ToLower(cfg.Forecast.MoonModel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the observer first so bad coordinates surface as
// astro.ErrInvalidCoordinates, then the remaining field constraints.
func (c *Config) Validate() error {
	if err := c.Observer().Validate(); err != nil {
		return &ConfigError{Type: ErrValidation, Message: "invalid location", Err: err}
	}
	if err := validator.New().Struct(c); err != nil {
		return &ConfigError{Type: ErrValidation, Message: "configuration validation failed", Err: err}
	}
	if c.Location.Timezone != "" {
		if _, err := time.LoadLocation(c.Location.Timezone); err != nil {
			return &ConfigError{Type: ErrValidation, Message: "unknown timezone", Err: err}
		}
	}
	return nil
}

// Observer returns the configured site.
func (c *Config) Observer() astro.Observer {
	return astro.Observer{
		LatDeg:     c.Location.Latitude,
		LonDeg:     c.Location.Longitude,
		ElevationM: c.Location.ElevationM,
		Name:       c.Location.Name,
	}
}

// TimeZone returns the configured zone, or a longitude-derived approximation.
func (c *Config) TimeZone() *time.Location {
	if c.Location.Timezone != "" {
		if loc, err := time.LoadLocation(c.Location.Timezone); err == nil {
			return loc
		}
	}
	return sky.ApproxZone(c.Location.Longitude)
}

// StartDate returns the first night to forecast: forecast.start_date, or the
// calendar date of now in the site's zone.
func (c *Config) StartDate(now time.Time) (time.Time, error) {
	loc := c.TimeZone()
	if c.Forecast.StartDate != "" {
		d, err := time.ParseInLocation("2006-01-02", c.Forecast.StartDate, loc)
		if err != nil {
			return time.Time{}, &ConfigError{Type: ErrValidation, Message: "invalid start date", Err: err}
		}
		return d, nil
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc), nil
}

// MoonModel returns the parsed Moon altitude model.
func (c *Config) MoonModel() sky.MoonModel {
	m, _ := sky.ParseMoonModel(c.Forecast.MoonModel)
	return m
}

// Limit returns the faintest magnitude allowed for a category. Milky Way
// targets have no limit.
func (m MagnitudeLimits) Limit(cat sky.Category) (float64, bool) {
	switch cat {
	case sky.CategoryPlanet:
		return m.Planet, true
	case sky.CategoryDSO:
		return m.DSO, true
	case sky.CategoryComet:
		return m.Comet, true
	case sky.CategoryAsteroid, sky.CategoryDwarfPlanet:
		return m.Asteroid, true
	}
	return 0, false
}

// ByCategory returns the limits keyed by category.
func (m MagnitudeLimits) ByCategory() map[sky.Category]float64 {
	out := make(map[sky.Category]float64)
	for _, c := range sky.Categories() {
		if limit, ok := m.Limit(c); ok {
			out[c] = limit
		}
	}
	return out
}
