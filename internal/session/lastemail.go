// Package session persists the small bits of login state that survive
// process restarts, such as the last email that passed authentication.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aihealth/authcore/internal/emailx"
)

const lastEmailFile = "last_email"

// FileCache stores session state as plain files under a directory.
type FileCache struct {
	dir string
}

// NewFileCache returns a cache rooted at dir. An empty dir places the
// state under ".authcore" in the current working directory.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, ".authcore")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &FileCache{dir: dir}, nil
}

// LastEmail returns the remembered email, or "" when none is stored.
func (c *FileCache) LastEmail() (string, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, lastEmailFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read last email: %w", err)
	}
	return emailx.Normalize(strings.TrimSpace(string(data))), nil
}

// SetLastEmail records email for the next session. An empty email
// clears the stored value.
func (c *FileCache) SetLastEmail(email string) error {
	path := filepath.Join(c.dir, lastEmailFile)
	email = emailx.Normalize(email)
	if email == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("clear last email: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(email+"\n"), 0o600); err != nil {
		return fmt.Errorf("write last email: %w", err)
	}
	return nil
}
