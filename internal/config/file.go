package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors Config with pointer fields so we can distinguish
// "not set" from zero values when merging TOML.
type fileConfig struct {
	SourcePath *string `toml:"source_path"`
	VaultPath  *string `toml:"vault_path"`
	Tables     *bool   `toml:"tables"`
	Format     *bool   `toml:"format"`
	BuildIndex *bool   `toml:"build_index"`
	Verbose    *bool   `toml:"verbose"`
}

// ConfigDir returns the molt config directory, respecting XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "molt")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "molt")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadFile reads config.toml and merges non-nil fields into cfg.
// Returns true if the file existed, false otherwise.
func LoadFile(cfg *Config) (bool, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return true, err
	}

	if fc.SourcePath != nil {
		cfg.SourcePath = ExpandHome(*fc.SourcePath)
	}
	if fc.VaultPath != nil {
		cfg.VaultPath = ExpandHome(*fc.VaultPath)
	}
	if fc.Tables != nil {
		cfg.Tables = *fc.Tables
	}
	if fc.Format != nil {
		cfg.Format = *fc.Format
	}
	if fc.BuildIndex != nil {
		cfg.BuildIndex = *fc.BuildIndex
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}

	return true, nil
}

// SaveFile writes a minimal config.toml with the given source and vault paths.
func SaveFile(sourcePath, vaultPath string) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	fc := fileConfig{}
	if sourcePath != "" {
		display := contractHome(sourcePath)
		fc.SourcePath = &display
	}
	if vaultPath != "" {
		display := contractHome(vaultPath)
		fc.VaultPath = &display
	}

	f, err := os.Create(filepath.Join(dir, "config.toml"))
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(fc)
}

// contractHome replaces a leading home directory with ~ for readability.
func contractHome(path string) string {
	home, _ := os.UserHomeDir()
	if home != "" && strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return "~" + path[len(home):]
	}
	return path
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, _ := os.UserHomeDir()
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
