// Package workspace provides portal workspace initialisation and
// discovery for beanbridge.
//
// A workspace is a .beanbridge directory holding the plugin state
// database and the conf/ tree with the portal's context files. This
// package handles:
//   - Initialising new workspaces (plugins.db plus a conf skeleton)
//   - Discovering existing workspaces by walking up the directory tree
//
// The discovery algorithm mirrors git's approach: starting from the
// current directory, walk up until a .beanbridge directory is found, or
// the filesystem root is reached.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/evdngsl/beanbridge/internal/loader"
	"github.com/evdngsl/beanbridge/internal/plugin"
)

const (
	// Dir is the directory name for the beanbridge workspace.
	Dir = ".beanbridge"
	// DBFile is the plugin state database filename.
	DBFile = "plugins.db"
	// ConfDir is the context file directory inside the workspace.
	ConfDir = "conf"
)

// ErrNotInitialised is returned when no workspace is found.
var ErrNotInitialised = errors.New("beanbridge not initialised (run 'beanbridge init')")

// Init initialises a new workspace under dir (current directory when
// empty): the plugin database, an empty core context file, and the
// plugins/ context directory.
//
// Init does not write config. Following the git model, config is a
// separate concern managed via "beanbridge config".
func Init(force bool, dir string) error {
	if dir == "" {
		dir = "."
	}
	wsDir := filepath.Join(dir, Dir)
	dbPath := filepath.Join(wsDir, DBFile)

	if _, err := os.Stat(dbPath); err == nil {
		if !force {
			return fmt.Errorf("workspace %s already exists (use --force to reinitialise)", wsDir)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("remove plugin database: %w", err)
		}
	}

	confDir := filepath.Join(wsDir, ConfDir)
	if err := os.MkdirAll(filepath.Join(confDir, loader.DirPlugins), 0755); err != nil {
		return fmt.Errorf("create conf directory: %w", err)
	}

	corePath := filepath.Join(confDir, loader.FileCoreContext)
	if _, err := os.Stat(corePath); os.IsNotExist(err) {
		if err := os.WriteFile(corePath, []byte("<beans>\n</beans>\n"), 0644); err != nil {
			return fmt.Errorf("write core context: %w", err)
		}
	}

	svc, err := plugin.Open(dbPath)
	if err != nil {
		return fmt.Errorf("create plugin database: %w", err)
	}
	return svc.Close()
}

// Discover walks up from the current directory looking for a workspace.
// Returns the path to the .beanbridge directory.
func Discover() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, Dir)
		if fi, err := os.Stat(candidate); err == nil && fi.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInitialised
		}
		dir = parent
	}
}

// DBPath returns the plugin database path inside a workspace directory.
func DBPath(wsDir string) string {
	return filepath.Join(wsDir, DBFile)
}

// ConfPath returns the conf directory path inside a workspace directory.
func ConfPath(wsDir string) string {
	return filepath.Join(wsDir, ConfDir)
}
