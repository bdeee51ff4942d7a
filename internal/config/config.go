// Package config loads the optional ewc/config.toml file described in
// spec.md §6: a single recognized key, bg_color, with unknown keys
// causing outright rejection.
//
// Grounded on original_source/src/config.rs's serde
// deny_unknown_fields + default pairing and config_path() search order.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the whole recognized schema.
type Config struct {
	BgColor [3]float64 `toml:"bg_color"`
}

func Default() Config {
	return Config{BgColor: [3]float64{0, 0, 0}}
}

// Path returns $XDG_CONFIG_HOME/ewc/config.toml, falling back to
// $HOME/.config/ewc/config.toml, matching the original's config_path().
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "ewc", "config.toml"), nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", fmt.Errorf("config: neither XDG_CONFIG_HOME nor HOME is set")
	}
	return filepath.Join(home, ".config", "ewc", "config.toml"), nil
}

// Load reads and validates the config file at path. A missing file is not
// an error; it yields Default(). Unknown keys are rejected, mirroring the
// original's serde(deny_unknown_fields).
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
	}
	for i, c := range cfg.BgColor {
		if c < 0 || c > 1 {
			return cfg, fmt.Errorf("config: %s: bg_color[%d]=%v out of range [0,1]", path, i, c)
		}
	}
	return cfg, nil
}
