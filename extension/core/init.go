// init.go implements the "beanbridge init" command for workspace
// initialisation.
//
// Separated from extension.go to isolate init-specific logic. Init is
// special because it runs before a workspace exists and creates the
// initial structure.
//
// Design: Init does NOT create config - that's managed separately via
// "beanbridge config". This follows git's model where init creates the
// workspace structure and config is separate.

package core

import (
	"fmt"
	"path/filepath"

	"github.com/evdngsl/beanbridge/cmd"
	"github.com/evdngsl/beanbridge/internal/log"
	"github.com/evdngsl/beanbridge/internal/workspace"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialise a new beanbridge workspace",
		Long: `Creates a .beanbridge/ workspace in the current directory:

  .beanbridge/conf/core_context.xml   core bean context
  .beanbridge/conf/plugins/           plugin context files
  .beanbridge/plugins.db              plugin state database

Use --dir to create in a different directory:
  beanbridge init --dir /path/to/project

Note: init does not create config. Use "beanbridge config" to set up
configuration.`,
		RunE: runInit,
	}
}

func runInit(_ *cobra.Command, _ []string) error {
	dir := cmd.Dir()

	err := workspace.Init(cmd.Force(), dir)

	log.Event("core:init", "init").
		Author(cmd.Author()).
		Detail("dir", dir).
		Detail("force", cmd.Force()).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("init: %w", err))
	}

	loc := workspace.Dir
	if dir != "" {
		loc = filepath.Join(dir, workspace.Dir)
	}
	fmt.Fprintf(cmd.Out(), "Initialised beanbridge workspace in %s\n", loc)
	return nil
}
