package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		input string
		want  string
	}{
		{"~/vault", filepath.Join(home, "vault")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ExpandHome(tt.input)
			if got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	cfg := Default()
	exists, err := LoadFile(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("LoadFile should return false for missing file")
	}
}

func TestLoadFile_Partial(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir := filepath.Join(tmp, "molt")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`tables = false`+"\n"), 0644)

	cfg := Default()
	exists, err := LoadFile(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("LoadFile should return true for existing file")
	}
	if cfg.Tables {
		t.Error("Tables should be false after load")
	}
	// VaultPath should remain the default since it wasn't in the file.
	home, _ := os.UserHomeDir()
	if cfg.VaultPath != filepath.Join(home, "vault") {
		t.Errorf("VaultPath changed unexpectedly: %q", cfg.VaultPath)
	}
}

func TestLoadFile_Full(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir := filepath.Join(tmp, "molt")
	os.MkdirAll(dir, 0755)
	content := `source_path = "~/export"
vault_path = "~/docs"
tables = false
format = true
build_index = true
verbose = true
`
	os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644)

	cfg := Default()
	exists, err := LoadFile(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("LoadFile should return true")
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "export"); cfg.SourcePath != want {
		t.Errorf("SourcePath = %q, want %q", cfg.SourcePath, want)
	}
	if want := filepath.Join(home, "docs"); cfg.VaultPath != want {
		t.Errorf("VaultPath = %q, want %q", cfg.VaultPath, want)
	}
	if cfg.Tables {
		t.Error("Tables should be false")
	}
	if !cfg.Format {
		t.Error("Format should be true")
	}
	if !cfg.BuildIndex {
		t.Error("BuildIndex should be true")
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
}

func TestSaveFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	home, _ := os.UserHomeDir()
	sourcePath := filepath.Join(home, "my-export")
	vaultPath := filepath.Join(home, "my-vault")

	if err := SaveFile(sourcePath, vaultPath); err != nil {
		t.Fatal(err)
	}

	// Verify the file was created and can be loaded back.
	cfg := Default()
	exists, err := LoadFile(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("config file should exist after SaveFile")
	}
	if cfg.SourcePath != sourcePath {
		t.Errorf("SourcePath = %q, want %q", cfg.SourcePath, sourcePath)
	}
	if cfg.VaultPath != vaultPath {
		t.Errorf("VaultPath = %q, want %q", cfg.VaultPath, vaultPath)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	want := filepath.Join(tmp, "molt")
	if got := ConfigDir(); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestConfigDir_Default(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", "molt")
	if got := ConfigDir(); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}
