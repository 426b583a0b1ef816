/*
Copyright © 2026 evdngsl
*/

// init_extensions.go handles extension initialisation and command registration.
//
// Separated from root.go to isolate the initialisation logic that discovers
// the workspace, opens the plugin database, loads config, and wires up
// extensions.
//
// Design: Extensions register during init() but aren't initialised until
// first command execution. This two-phase pattern allows extensions to
// declare commands before the workspace exists. The plugin service is
// created once and shared across all extensions via the Context.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/evdngsl/beanbridge/extension"
	"github.com/evdngsl/beanbridge/internal/config"
	"github.com/evdngsl/beanbridge/internal/container"
	"github.com/evdngsl/beanbridge/internal/log"
	"github.com/evdngsl/beanbridge/internal/plugin"
	"github.com/evdngsl/beanbridge/internal/workspace"
)

// noWorkspaceCommands lists commands that bypass automatic workspace
// initialisation. Built dynamically from extension-declared workspaceless
// commands.
var noWorkspaceCommands map[string]bool

// buildNoWorkspaceCommands creates the set of commands that skip workspace
// initialisation.
//
// Why this exists: Most commands need the workspace (plugin database and
// context files), but bootstrap and utility commands must work without
// one. Running "beanbridge guide" shouldn't fail just because you haven't
// run "beanbridge init" yet. Extensions declare such commands via the
// extension.Workspaceless interface.
func buildNoWorkspaceCommands() map[string]bool {
	cmds := map[string]bool{
		// Bare root (help output) and cobra built-ins never need the workspace
		rootCmd.Name(): true,
		"help":         true,
		"completion":   true,
	}
	for _, ext := range extension.All() {
		if w, ok := ext.(extension.Workspaceless); ok {
			for _, name := range w.NoWorkspaceCommands() {
				cmds[name] = true
			}
		}
	}
	return cmds
}

// Global extension context, created during initialisation.
var (
	extContext extension.Context
	extPlugins *plugin.Service
	initOnce   sync.Once
	initErr    error
)

// initExtensions discovers the workspace, opens the plugin database, and
// injects the shared context into extensions.
//
// Why sync.Once: The plugin database must be opened exactly once and
// shared across all extensions. sync.Once guarantees one initialisation
// per process, even if multiple commands somehow trigger it.
//
// Note the container itself is NOT built here - extension.Context builds
// it lazily so commands that only read context files still work when a
// bean definition is broken.
func initExtensions() error {
	initOnce.Do(func() {
		wsDir, err := resolveWorkspace()
		if err != nil {
			initErr = err
			return
		}

		svc, err := plugin.Open(workspace.DBPath(wsDir))
		if err != nil {
			initErr = fmt.Errorf("opening plugin database: %w", err)
			return
		}
		extPlugins = svc

		// Set workspace identifier for audit logging
		log.SetWorkspace(wsDir)

		cfg, err := config.Load()
		if err != nil {
			initErr = err
			return
		}

		confDir := workspace.ConfPath(wsDir)
		if cfg.Conf.Path != "" {
			confDir = cfg.Conf.Path
		}

		extContext = extension.NewContext(svc, cfg, confDir)

		// Inject the shared context into all Initializable extensions.
		// This is dependency injection - extensions receive shared state
		// rather than creating it themselves, enabling proper cleanup.
		for _, ext := range extension.All() {
			if init, ok := ext.(extension.Initializable); ok {
				if err := init.Init(extContext); err != nil {
					initErr = fmt.Errorf("init extension %s: %w", ext.Name(), err)
					return
				}
			}
		}
	})
	return initErr
}

// resolveWorkspace returns the .beanbridge directory, either explicitly
// via --dir / BEANBRIDGE_DIR or by walking up from the current directory.
func resolveWorkspace() (string, error) {
	if d := Dir(); d != "" {
		wsDir := filepath.Join(d, workspace.Dir)
		if fi, err := os.Stat(wsDir); err != nil || !fi.IsDir() {
			return "", fmt.Errorf("%w (looked in %s)", workspace.ErrNotInitialised, wsDir)
		}
		return wsDir, nil
	}
	return workspace.Discover()
}

// shutdownExtensions closes the container (if it was built) and the
// plugin database. Called once after command execution.
func shutdownExtensions() {
	if extContext != nil {
		if h, ok := extContext.(interface{ Manager() *container.Manager }); ok {
			if mgr := h.Manager(); mgr != nil {
				if err := mgr.Shutdown(); err != nil {
					fmt.Fprintf(os.Stderr, "warning: closing container: %v\n", err)
				}
			}
		}
	}
	if extPlugins != nil {
		if err := extPlugins.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing plugin database: %v\n", err)
		}
	}
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
// Called once before Execute runs.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}

		// Build noWorkspaceCommands after all extensions are registered
		noWorkspaceCommands = buildNoWorkspaceCommands()
	})
}
