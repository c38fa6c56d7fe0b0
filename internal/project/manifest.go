// Package project loads the optional aegis.toml project manifest that
// records a module's name and its default --mode/--strict-init values,
// so a project need not repeat those flags on every invocation.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestFileName = "aegis.toml"

// Manifest is a loaded aegis.toml plus the location it was found at.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config is the decoded shape of aegis.toml.
type Config struct {
	Module   ModuleConfig   `toml:"module"`
	Defaults DefaultsConfig `toml:"defaults"`
}

// ModuleConfig names the project.
type ModuleConfig struct {
	Name string `toml:"name"`
}

// DefaultsConfig records the flag defaults a project wants applied when
// its invocation omits them explicitly.
type DefaultsConfig struct {
	Mode        string `toml:"mode"`
	StrictInit  bool   `toml:"strict_init"`
	MaxDiags    int    `toml:"max_diagnostics"`
}

// Find walks upward from startDir looking for aegis.toml, the way a
// project root is located for any other per-project tool config.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses aegis.toml starting from startDir. ok is false
// (with a nil error) when no manifest exists; an absent manifest is not
// itself a failure since every flag has a usable default.
func Load(startDir string) (m *Manifest, ok bool, err error) {
	path, found, err := Find(startDir)
	if err != nil || !found {
		return nil, found, err
	}
	cfg, err := decode(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

func decode(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if meta.IsDefined("module") && strings.TrimSpace(cfg.Module.Name) == "" {
		return Config{}, fmt.Errorf("%s: [module].name must not be empty", path)
	}
	if cfg.Defaults.Mode != "" {
		switch cfg.Defaults.Mode {
		case "safe", "compat", "unsafe":
		default:
			return Config{}, fmt.Errorf("%s: [defaults].mode must be safe, compat, or unsafe", path)
		}
	}
	return cfg, nil
}
