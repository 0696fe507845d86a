package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// MEDIAGRID_RENDER_WORKERS.
const EnvPrefix = "MEDIAGRID"

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "mediagrid"

// Config is the root configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	Render RenderConfig `mapstructure:"render" yaml:"render"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // console or json
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"` // empty disables the file core
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// RenderConfig controls the batch renderer.
type RenderConfig struct {
	Profile       string   `mapstructure:"profile" yaml:"profile"`
	OutDir        string   `mapstructure:"out_dir" yaml:"out_dir"`
	Workers       int      `mapstructure:"workers" yaml:"workers"` // 0 = NumCPU
	Quality       int      `mapstructure:"quality" yaml:"quality"` // 0 = profile default
	Formats       []string `mapstructure:"formats" yaml:"formats"` // empty = profile default
	FallbackColor string   `mapstructure:"fallback_color" yaml:"fallback_color"`
}

// NewDefaultConfig returns a Config populated only from defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "mediagrid")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Render --
	v.SetDefault("render.profile", "chat")
	v.SetDefault("render.out_dir", "./mediagrid_out")
	v.SetDefault("render.workers", 0)
	v.SetDefault("render.quality", 0)
	v.SetDefault("render.formats", []string{})
	v.SetDefault("render.fallback_color", "#e0e0e0")
}

// Load reads an optional config file and MEDIAGRID_* environment overrides
// into v, then unmarshals and validates the result. A missing default
// config file is not an error; a missing explicit file is.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultFile)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("render.workers must not be negative")
	}
	if c.Render.Quality < 0 || c.Render.Quality > 100 {
		return fmt.Errorf("render.quality must be between 0 and 100")
	}
	if c.Render.OutDir == "" {
		return fmt.Errorf("render.out_dir is required")
	}
	if _, err := c.Render.Fallback(); err != nil {
		return fmt.Errorf("render.fallback_color: %w", err)
	}
	return nil
}

// Fallback parses FallbackColor.
func (r RenderConfig) Fallback() (color.NRGBA, error) {
	return ParseHexColor(r.FallbackColor)
}

// ParseHexColor parses #rgb, #rrggbb or #rrggbbaa.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
