package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	"github.com/karupanerura/exprlang/internal/types"
)

type Format string

const (
	SExprFormat Format = "sexpr"
	JSONFormat  Format = "json"
	YAMLFormat  Format = "yaml"
	PPFormat    Format = "pp"
)

var Formats = []Format{SExprFormat, JSONFormat, YAMLFormat, PPFormat}

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

var ColorModes = []ColorMode{ColorAuto, ColorAlways, ColorNever}

// Config holds the settings shared by the CLI and the HTTP server.
type Config struct {
	Format Format    `mapstructure:"format"`
	Indent string    `mapstructure:"indent"`
	Color  ColorMode `mapstructure:"color"`
	Debug  bool      `mapstructure:"debug"`
	Tokens bool      `mapstructure:"tokens"`
	Listen string    `mapstructure:"listen"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Format == "" {
		c.Format = SExprFormat
	}
	if c.Indent == "" {
		c.Indent = "\t"
	}
	if c.Color == "" {
		c.Color = ColorAuto
	}
}

// Validate reports unknown enumerated values.
func (c *Config) Validate() error {
	if !lo.Contains(Formats, c.Format) {
		return configError(fmt.Errorf("unknown format %q", c.Format))
	}
	if !lo.Contains(ColorModes, c.Color) {
		return configError(fmt.Errorf("unknown color mode %q", c.Color))
	}
	return nil
}

// Decode builds a Config from a generic map as produced by the file loaders.
func Decode(m map[string]any) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("mapstructure.NewDecoder: %w", err)
	}
	if err := decoder.Decode(m); err != nil {
		return nil, configError(fmt.Errorf("mapstructure.Decode: %w", err))
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configError(err error) error {
	return &types.Error{Tag: types.ConfigErrorTag, Err: err}
}
