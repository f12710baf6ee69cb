package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the optional shelf configuration file.
type Config struct {
	Scan  ScanConfig  `toml:"scan"`
	Copy  CopyConfig  `toml:"copy"`
	Theme ThemeConfig `toml:"theme"`
}

// ScanConfig holds discovery defaults.
type ScanConfig struct {
	IncludeExt []string `toml:"include_ext"`
	ExcludeExt []string `toml:"exclude_ext"`
	Exclude    []string `toml:"exclude"`
	AllowMedia *bool    `toml:"allow_media"`
	GroupBy    *string  `toml:"group_by"`
	MinSize    *string  `toml:"min_size"`
	MaxSize    *string  `toml:"max_size"`
}

// CopyConfig holds copy stage defaults.
type CopyConfig struct {
	Dest       *string `toml:"dest"`
	Log        *string `toml:"log"`
	Verify     *bool   `toml:"verify"`
	BWLimit    *string `toml:"bwlimit"`
	AutoCreate *bool   `toml:"auto_create"`
}

// ThemeConfig holds optional color overrides.
type ThemeConfig struct {
	Green  *string `toml:"green"`
	Blue   *string `toml:"blue"`
	Yellow *string `toml:"yellow"`
	Red    *string `toml:"red"`
	Mauve  *string `toml:"mauve"`
	Muted  *string `toml:"muted"`
	Bright *string `toml:"bright"`
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "shelf", "config.toml")
}

// Load reads the config file from the XDG path. Returns a zero Config
// (no error) if the file does not exist. Config is always optional.
func Load() (Config, error) {
	path := Path()
	if path == "" {
		return Config{}, nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// LoadFile reads a config file from an explicit path. Unknown keys are an
// error so typos do not silently fall back to defaults.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}
