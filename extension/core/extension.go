// Package core provides the core extension for beanbridge.
// It registers commands: init, config, guide, version.
package core

import (
	"github.com/evdngsl/beanbridge/extension"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the core extension.
type Extension struct{}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Workspaceless = (*Extension)(nil)
)

// Name returns "core" - this extension provides fundamental beanbridge commands.
func (e *Extension) Name() string { return "core" }

// Commands returns all core CLI commands for workspace management.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		newInitCmd(),
		newConfigCmd(),
		newGuideCmd(),
		newVersionCmd(),
	}
}

// NoWorkspaceCommands returns commands that work without a workspace.
// init: Creates the workspace, so cannot require one.
// config: Global config must be editable before any workspace exists.
// guide: Documentation is embedded, no workspace needed.
// version: Displays build info only.
func (e *Extension) NoWorkspaceCommands() []string {
	return []string{"init", "config", "guide", "version"}
}
