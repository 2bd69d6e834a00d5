// Package config loads application configuration from a YAML file with SWAPRISK_*
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/logger"
	engineconfig "github.com/abukar10/Sonia-swap-pricing-analytics-tool/swap/config"
)

// EnvPrefix prefixes environment overrides, e.g. SWAPRISK_SERVER_PORT.
const EnvPrefix = "SWAPRISK"

// Config represents the complete application configuration.
type Config struct {
	Logging LoggingConfig       `mapstructure:"logging" yaml:"logging"`
	Server  ServerConfig        `mapstructure:"server"  yaml:"server"`
	Data    DataConfig          `mapstructure:"data"    yaml:"data"`
	Engine  engineconfig.Config `mapstructure:"engine"  yaml:"engine"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
	Output string `mapstructure:"output" yaml:"output"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"             yaml:"host"`
	Port            int           `mapstructure:"port"             yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	BodyLimit       string        `mapstructure:"body_limit"       yaml:"body_limit"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DataConfig points at input files. Empty paths select the bundled sample data.
type DataConfig struct {
	OISQuotes     string `mapstructure:"ois_quotes"     yaml:"ois_quotes"`
	ForwardQuotes string `mapstructure:"forward_quotes" yaml:"forward_quotes"`
	Terms         string `mapstructure:"terms"          yaml:"terms"`
}

// LoggerConfig maps the logging block onto logger.Config.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		Output:     c.Logging.Output,
		TimeFormat: time.RFC3339,
	}
}

// Apply validates the engine block and makes it the active engine configuration.
func (c *Config) Apply() error {
	if err := engineconfig.SetConfig(c.Engine); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	c.Engine = engineconfig.GetConfig()
	return nil
}

// Load reads the configuration from file and environment variables.
// With an empty path the file is searched in ./, ./config and ~/.swaprisk; a missing
// file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("swaprisk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath(filepath.Join(homeDir(), ".swaprisk"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults mirrors logger.DefaultConfig and engineconfig.DefaultConfig.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", logger.DefaultConfig.Level)
	v.SetDefault("logging.format", logger.DefaultConfig.Format)
	v.SetDefault("logging.output", logger.DefaultConfig.Output)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.body_limit", "2M")

	v.SetDefault("data.ois_quotes", "")
	v.SetDefault("data.forward_quotes", "")
	v.SetDefault("data.terms", "")

	d := engineconfig.DefaultConfig
	v.SetDefault("engine.bootstrap_frequency", d.BootstrapFrequency)
	v.SetDefault("engine.bump_bp", d.BumpBP)
	v.SetDefault("engine.stress_shift_bp", d.StressShiftBP)
	v.SetDefault("engine.key_tenors", d.KeyTenors)
	v.SetDefault("engine.short_tenor_cutoff", d.ShortTenorCutoff)
	v.SetDefault("engine.long_tenor_cutoff", d.LongTenorCutoff)
	v.SetDefault("engine.short_width", d.ShortWidth)
	v.SetDefault("engine.medium_width", d.MediumWidth)
	v.SetDefault("engine.long_width", d.LongWidth)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
