package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
)

const defaultConfigPath = "~/.midicat.toml"

// Config holds defaults for the subcommands. Flags given on the command line win.
type Config struct {
	LogLevel string
	LogFile  string
	Resync   bool
	Strict   bool
	Filter   []string
	Format   string
}

type fileConfig struct {
	LogLevel string   `toml:"log_level"`
	LogFile  string   `toml:"log_file"`
	Resync   bool     `toml:"resync"`
	Strict   bool     `toml:"strict"`
	Filter   []string `toml:"filter"`
	Format   string   `toml:"format"`
}

func defaultConfig() Config {
	return Config{LogLevel: "info", Format: formatText}
}

// loadConfig reads the TOML file at path. A missing file is only an error
// when required is set.
func loadConfig(path string, required bool) (Config, error) {
	cfg := defaultConfig()

	resolved, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path %q: %w", path, err)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(resolved, &raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_file") {
		p, err := homedir.Expand(strings.TrimSpace(raw.LogFile))
		if err != nil {
			return Config{}, fmt.Errorf("resolve log_file: %w", err)
		}
		cfg.LogFile = p
	}
	if meta.IsDefined("resync") {
		cfg.Resync = raw.Resync
	}
	if meta.IsDefined("strict") {
		cfg.Strict = raw.Strict
	}
	if meta.IsDefined("filter") {
		cfg.Filter = raw.Filter
	}
	if meta.IsDefined("format") {
		format := strings.ToLower(strings.TrimSpace(raw.Format))
		if format != formatText && format != formatHex {
			return Config{}, fmt.Errorf("parse format: unknown value %q", raw.Format)
		}
		cfg.Format = format
	}
	return cfg, nil
}
