// Package config loads run configuration from a config file, the
// environment, and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/valpere/docloc/internal/catalog"
)

const envPrefix = "DOCLOC"

// CatalogConfig names one catalog location.
type CatalogConfig struct {
	Format string `mapstructure:"format" json:"format"`
	Path   string `mapstructure:"path" json:"path"`
}

type Config struct {
	TargetLang string          `mapstructure:"target_lang" json:"target_lang"`
	Catalogs   []CatalogConfig `mapstructure:"catalogs" json:"catalogs"`
	Output     CatalogConfig   `mapstructure:"output" json:"output"`
	LogLevel   string          `mapstructure:"log_level" json:"log_level"`
}

// Load reads and validates configuration.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Read reads configuration without validating it, so callers can apply
// overrides first. path may be empty, in which case docloc.yaml in the
// working directory is used when present. A .env file is loaded into the
// environment first.
func Read(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// nested keys are only picked up from the environment when bound
	for _, key := range []string{"target_lang", "log_level", "output.format", "output.path"} {
		_ = v.BindEnv(key)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("docloc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks formats and the target language tag.
func (c Config) Validate() error {
	if c.TargetLang == "" {
		return fmt.Errorf("target_lang is required")
	}
	if _, err := language.Parse(c.TargetLang); err != nil {
		return fmt.Errorf("invalid target_lang %q: %w", c.TargetLang, err)
	}
	for i, cc := range c.Catalogs {
		if err := cc.validate(); err != nil {
			return fmt.Errorf("catalogs[%d]: %w", i, err)
		}
	}
	if c.Output.Path != "" || c.Output.Format != "" {
		if err := c.Output.validate(); err != nil {
			return fmt.Errorf("output: %w", err)
		}
	}
	return nil
}

func (cc CatalogConfig) validate() error {
	switch cc.Format {
	case catalog.FormatPO, catalog.FormatYAML, catalog.FormatSQLite:
	default:
		return fmt.Errorf("%w: %q", catalog.ErrUnknownFormat, cc.Format)
	}
	if cc.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}
