package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/adrg/xdg"

	"github.com/nightconcept/capctl/internal/core/capability"
)

const ConfigFileName = "capctl.toml"

// UserConfigRelPath is the per-user configuration, relative to the XDG config home.
const UserConfigRelPath = "capctl/config.toml"

// DefaultAppsDir is where added capability documents are stored, relative to
// the project root.
const DefaultAppsDir = "capabilities"

// TargetConfig describes the system capabilities are checked against.
type TargetConfig struct {
	OS      string `toml:"os"`
	Version string `toml:"version,omitempty"`
}

// IntegrationConfig controls where registered apps are kept.
type IntegrationConfig struct {
	AppsDir     string `toml:"apps_dir"`
	MachineWide bool   `toml:"machine_wide"`
}

// Config represents the structure of the capctl.toml file.
type Config struct {
	Target      TargetConfig      `toml:"target"`
	Integration IntegrationConfig `toml:"integration"`
}

// Default returns the configuration used for settings no file provides.
func Default() *Config {
	return &Config{
		Target:      TargetConfig{OS: capability.CurrentOS().String()},
		Integration: IntegrationConfig{AppsDir: DefaultAppsDir},
	}
}

// searchUserConfig locates an existing user-level config file.
var searchUserConfig = func() (string, error) {
	return xdg.SearchConfigFile(UserConfigRelPath)
}

// UserConfigPath returns the path the user-level config file is written to,
// creating its parent directory.
func UserConfigPath() (string, error) {
	path, err := xdg.ConfigFile(UserConfigRelPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config path: %w", err)
	}
	return path, nil
}

// Load reads capctl.toml from dirPath. If there is none, the user-level file is
// used instead. Settings missing from the file fall back to Default. The
// returned path is empty when only defaults apply.
func Load(dirPath string) (*Config, string, error) {
	path := filepath.Join(dirPath, ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
		userPath, searchErr := searchUserConfig()
		if searchErr != nil {
			return Default(), "", nil
		}
		path = userPath
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// LoadFile reads a single config file and fills unset values from Default.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var fromFile Config
	if err := toml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	merged := Config{}
	if err := mergo.Merge(&merged, fromFile); err != nil {
		return nil, fmt.Errorf("failed to merge config %s: %w", path, err)
	}
	if err := mergo.Merge(&merged, *Default()); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}
	return &merged, nil
}

// Write marshals cfg and writes it to path, overwriting any existing file.
func Write(path string, cfg *Config) error {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// SystemTarget converts the [target] section into a capability.Target. An empty
// version leaves Target.Version nil.
func (c *Config) SystemTarget() (capability.Target, error) {
	osName, err := capability.ParseOS(c.Target.OS)
	if err != nil {
		return capability.Target{}, fmt.Errorf("invalid target os: %w", err)
	}
	target := capability.Target{OS: osName}
	if c.Target.Version != "" {
		v, err := semver.NewVersion(c.Target.Version)
		if err != nil {
			return capability.Target{}, fmt.Errorf("invalid target version %q: %w", c.Target.Version, err)
		}
		target.Version = v
	}
	return target, nil
}

// AppsDir returns the directory for stored capability documents, resolved
// against projectRoot when relative.
func (c *Config) AppsDir(projectRoot string) string {
	if filepath.IsAbs(c.Integration.AppsDir) {
		return c.Integration.AppsDir
	}
	return filepath.Join(projectRoot, c.Integration.AppsDir)
}
