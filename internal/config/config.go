// Package config loads the optional esc.toml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is looked up from the input's directory towards the root.
const FileName = "esc.toml"

type Config struct {
	Prelude PreludeConfig `toml:"prelude"`
	Native  NativeConfig  `toml:"native"`
	WASM    WASMConfig    `toml:"wasm"`
}

type PreludeConfig struct {
	// Paths are relative to the directory holding esc.toml until Load
	// makes them absolute.
	Paths []string `toml:"paths"`
	NoStd bool     `toml:"no_std"`
}

type NativeConfig struct {
	CC      string   `toml:"cc"`
	LDFlags []string `toml:"ldflags"`
}

type WASMConfig struct {
	InitialMemory uint64 `toml:"initial_memory"`
	MaxMemory     uint64 `toml:"max_memory"`
}

// Manifest is a loaded esc.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Find walks up from startDir and returns the first esc.toml path.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the manifest governing startDir. ok is false
// when there is none; that is not an error.
func Discover(startDir string) (m *Manifest, ok bool, err error) {
	path, found, err := Find(startDir)
	if err != nil || !found {
		return nil, found, err
	}
	m, err = Load(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Load parses path and resolves prelude paths against its directory.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	root := filepath.Dir(path)
	for i, p := range cfg.Prelude.Paths {
		if !filepath.IsAbs(p) {
			cfg.Prelude.Paths[i] = filepath.Join(root, filepath.FromSlash(p))
		}
	}
	return &Manifest{Path: path, Root: root, Config: cfg}, nil
}

func (c Config) validate() error {
	for _, p := range c.Prelude.Paths {
		if strings.TrimSpace(p) == "" {
			return errors.New("[prelude].paths contains an empty entry")
		}
	}
	w := c.WASM
	if w.InitialMemory != 0 && w.MaxMemory != 0 && w.InitialMemory > w.MaxMemory {
		return fmt.Errorf("[wasm].initial_memory (%d) exceeds max_memory (%d)", w.InitialMemory, w.MaxMemory)
	}
	return nil
}
