package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Vault is the destination tree files are migrated into.
type Vault struct {
	Root string
}

func New(root string) *Vault {
	return &Vault{Root: root}
}

// Abs converts a slash-separated vault-relative path to an absolute path.
func (v *Vault) Abs(rel string) string {
	return filepath.Join(v.Root, filepath.FromSlash(rel))
}

// WriteFile writes data to a vault-relative path, creating intermediate
// directories as needed.
func (v *Vault) WriteFile(rel string, data []byte) error {
	abs := v.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(abs, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// CopyFrom copies an outside file into the vault at a vault-relative path.
func (v *Vault) CopyFrom(srcAbs, rel string) error {
	in, err := os.Open(srcAbs)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	abs := v.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	out, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}
