// Package plugins provides the plugin extension for beanbridge.
// It registers commands: plugin (with subcommands list, install, uninstall).
package plugins

import (
	"fmt"

	"github.com/evdngsl/beanbridge/cmd"
	"github.com/evdngsl/beanbridge/extension"
	"github.com/evdngsl/beanbridge/internal/log"
	"github.com/evdngsl/beanbridge/internal/plugin"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the plugin extension.
type Extension struct {
	svc *plugin.Service
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "plugin" - this extension provides plugin state commands.
func (e *Extension) Name() string { return "plugin" }

// Init receives the shared plugin service from the extension context.
func (e *Extension) Init(ctx extension.Context) error {
	e.svc = ctx.Plugins()
	return nil
}

// Commands returns the plugin command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newPluginCmd(),
	}
}

func (e *Extension) newPluginCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "plugin",
		Short: "Manage plugin activation state",
		Long: `List, install, and uninstall plugins.

A plugin owns every bean whose name starts with "<plugin>.". Installing
a plugin makes its beans visible to type-based container lookups;
uninstalling hides them again. Named lookups are unaffected.`,
	}
	c.AddCommand(e.newListCmd())
	c.AddCommand(e.newInstallCmd())
	c.AddCommand(e.newUninstallCmd())
	return c
}

func (e *Extension) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered plugins and their state",
		Args:  cobra.NoArgs,
		RunE:  e.runList,
	}
}

func (e *Extension) newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <name>",
		Short: "Install a plugin, enabling its beans",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runInstall,
	}
}

func (e *Extension) newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <name>",
		Short: "Uninstall a plugin, hiding its beans",
		Args:  cobra.ExactArgs(1),
		RunE:  e.runUninstall,
	}
}

func (e *Extension) runList(_ *cobra.Command, _ []string) error {
	list, err := e.svc.List()

	log.Event("plugin:list", "list").
		Author(cmd.Author()).
		Detail("count", len(list)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("plugin list: %w", err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(list)
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.Out(), "no plugins registered")
		return nil
	}
	for _, p := range list {
		state := "uninstalled"
		if p.Installed {
			state = "installed"
		}
		line := fmt.Sprintf("%-20s %-12s", p.Name, state)
		if p.Version != "" {
			line += " " + p.Version
		}
		fmt.Fprintln(cmd.Out(), line)
	}
	return nil
}

func (e *Extension) runInstall(_ *cobra.Command, args []string) error {
	name := args[0]

	err := e.svc.Install(name)

	log.Event("plugin:install", "install").
		Author(cmd.Author()).
		Name(name).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("plugin install %q: %w", name, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{"plugin": name, "installed": true})
	}
	fmt.Fprintf(cmd.Out(), "Installed plugin %s\n", name)
	return nil
}

func (e *Extension) runUninstall(_ *cobra.Command, args []string) error {
	name := args[0]

	err := e.svc.Uninstall(name)

	log.Event("plugin:uninstall", "uninstall").
		Author(cmd.Author()).
		Name(name).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("plugin uninstall %q: %w", name, err))
	}

	if cmd.JSON() {
		return cmd.PrintJSON(map[string]any{"plugin": name, "installed": false})
	}
	fmt.Fprintf(cmd.Out(), "Uninstalled plugin %s\n", name)
	return nil
}
