package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file on top of DefaultConfig, so a file only
// needs the keys it changes. The format follows the extension: .yaml or
// .yml, .toml, or .ini with one section per top-level group.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
		}
	case ".ini":
		f, err := ini.Load(path)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		if err := f.MapTo(cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}

	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
