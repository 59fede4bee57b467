package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	SourcePath string // Notion export directory
	VaultPath  string // Obsidian vault destination
	Tables     bool   // convert CSV databases to markdown tables
	Format     bool   // normalize markdown after rewriting
	BuildIndex bool   // index the vault after migration
	Verbose    bool
}

func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		VaultPath: filepath.Join(home, "vault"),
		Tables:    true,
	}
}
