package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Load reads a config file, choosing the decoder by extension.
func Load(filePath string) (*Config, error) {
	var load func(io.Reader) (*Config, error)
	switch filepath.Ext(filePath) {
	case ".json":
		load = LoadJSON
	case ".yaml", ".yml":
		load = LoadYAML
	case ".toml":
		load = LoadTOML
	default:
		return nil, configError(fmt.Errorf("unsupported file extension: %s", filePath))
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	cfg, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return cfg, nil
}

func LoadYAML(r io.Reader) (*Config, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, configError(fmt.Errorf("yaml.YAMLToJSON: %w", err))
	}

	return LoadJSON(bytes.NewReader(jsonBytes))
}

func LoadJSON(r io.Reader) (*Config, error) {
	var m map[string]any
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, configError(fmt.Errorf("json.Decode: %w", err))
	}
	return Decode(m)
}

func LoadTOML(r io.Reader) (*Config, error) {
	var m map[string]any
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, configError(fmt.Errorf("toml.Decode: %w", err))
	}
	return Decode(m)
}
