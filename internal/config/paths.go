// Package config manages spritedev configuration and filesystem paths.
//
// The default root is ~/.spritedev/ holding the session file and an optional
// config.yaml. The root can be moved with SPRITEDEV_ROOT. Settings layered
// over the config file and SPRITEDEV_* environment variables live in
// settings.go.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DocumentExt is the directory suffix of a saved sprite document.
const DocumentExt = ".sprite"

// Paths contains all the filesystem paths used by spritedev.
type Paths struct {
	// Root is the base directory for all spritedev data (default: ~/.spritedev)
	Root string

	// Session is the path to the session state file
	Session string

	// Config is the path to the global config file
	Config string
}

// DefaultPaths returns the default paths for spritedev.
// Paths can be overridden with environment variables:
// - SPRITEDEV_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("SPRITEDEV_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".spritedev")
	}
	return PathsAt(root), nil
}

// PathsAt returns the paths rooted at root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:    root,
		Session: filepath.Join(root, "session.json"),
		Config:  filepath.Join(root, "config.yaml"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.Root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.Root, err)
	}
	return nil
}

// DocumentDir resolves a user-supplied document path to its absolute
// directory, adding the .sprite suffix when missing.
func DocumentDir(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("document path is empty")
	}
	if !strings.HasSuffix(path, DocumentExt) {
		path += DocumentExt
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve document path: %w", err)
	}
	return abs, nil
}
