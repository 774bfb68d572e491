package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/muurk/tpsctl/internal/entry"
)

const (
	appName    = "tpsctl"
	configFile = "config.yaml"

	registryVersion = 1
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error

	// serializes writers within this process
	writeMu sync.Mutex
)

// GetConfigDir returns the per-user directory holding tpsctl state:
//   - Windows: %LOCALAPPDATA%\tpsctl
//   - everything else: $XDG_CONFIG_HOME/tpsctl, or ~/.config/tpsctl
//
// macOS uses ~/.config, not ~/Library, and ignores XDG_CONFIG_HOME.
func GetConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			profile := os.Getenv("USERPROFILE")
			if profile == "" {
				return "", errors.New("neither LOCALAPPDATA nor USERPROFILE is set")
			}
			base = filepath.Join(profile, "AppData", "Local")
		}
		return filepath.Join(base, appName), nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" && runtime.GOOS != "darwin" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// GetConfigPath returns the default registry file location.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// LoadRegistry returns the registry at GetConfigPath. It is read once per
// process; later calls share the same instance.
func LoadRegistry() (*Registry, error) {
	defaultOnce.Do(func() {
		var path string
		path, defaultErr = GetConfigPath()
		if defaultErr != nil {
			return
		}
		defaultRegistry, defaultErr = LoadRegistryFrom(path)
	})
	return defaultRegistry, defaultErr
}

// LoadRegistryFrom reads a registry from configPath. A missing file is not an
// error: the caller gets an empty registry that Save will create.
func LoadRegistryFrom(configPath string) (*Registry, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	registry := &Registry{}
	if err := yaml.Unmarshal(data, registry); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	if registry.Version != registryVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", registry.Version, registryVersion)
	}
	registry.fillDefaults()
	return registry, nil
}

func (r *Registry) fillDefaults() {
	if r.Servers == nil {
		r.Servers = make(map[string]*Server)
	}
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
	if r.Preferences.PageSize <= 0 {
		r.Preferences.PageSize = DefaultPageSize
	}
	if r.Preferences.Timeout <= 0 {
		r.Preferences.Timeout = DefaultTimeout
	}
}

// Save writes the registry to GetConfigPath.
func (r *Registry) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return r.SaveTo(path)
}

const fileHeader = `# tpsctl configuration: TPS server profiles and console preferences.
# Passwords are never written here; use TPSCTL_PASSWORD or --password.

`

// SaveTo writes the registry to configPath, creating its directory if needed.
// The file is replaced atomically.
func (r *Registry) SaveTo(configPath string) error {
	writeMu.Lock()
	defer writeMu.Unlock()

	body, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, configFile+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary config file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(append([]byte(fileHeader), body...)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to restrict config permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), configPath); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// DefaultRegistry returns the registry written by 'tpsctl config init': a
// "local" profile for the mock server and approval controls for entries
// pending approval.
func DefaultRegistry() (*Registry, error) {
	registry := NewRegistry()
	if err := registry.SetServer("local", &Server{
		URL:      "http://localhost:8080",
		Username: "tpsadmin",
	}); err != nil {
		return nil, err
	}
	registry.Preferences.StatusActions = map[string][]string{
		string(entry.StatusPendingApproval): {string(entry.ActionApprove), string(entry.ActionReject)},
	}
	return registry, nil
}
