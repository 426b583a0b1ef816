// Package extension provides the modular command architecture for
// beanbridge. Extensions encapsulate related functionality (commands)
// and register at init time, enabling feature development without
// touching core code.
package extension

import (
	"github.com/spf13/cobra"
)

// Extension defines the contract for beanbridge extensions.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command
}

// Initializable extensions can perform setup once the workspace is open.
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Workspaceless is an optional interface for extensions with commands
// that don't require a workspace. Commands returned by
// NoWorkspaceCommands() will not trigger workspace initialisation in
// PersistentPreRunE.
//
// Use cases:
// 1. Bootstrap commands (like init) that run before a workspace exists
// 2. Utility commands (guide, version) that never touch the workspace
type Workspaceless interface {
	NoWorkspaceCommands() []string
}
