// Package contexts provides the context extension for beanbridge.
// It registers commands: context (with subcommands validate, beans, diff).
package contexts

import (
	"fmt"
	"os"
	"sort"

	"github.com/evdngsl/beanbridge/cmd"
	"github.com/evdngsl/beanbridge/extension"
	"github.com/evdngsl/beanbridge/internal/bean"
	"github.com/evdngsl/beanbridge/internal/catalog"
	"github.com/evdngsl/beanbridge/internal/diff"
	"github.com/evdngsl/beanbridge/internal/loader"
	"github.com/evdngsl/beanbridge/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the context extension.
type Extension struct {
	ctx extension.Context
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "context" - this extension provides context file commands.
func (e *Extension) Name() string { return "context" }

// Init receives the shared context from the command layer.
func (e *Extension) Init(ctx extension.Context) error {
	e.ctx = ctx
	return nil
}

// Commands returns the context command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newContextCmd(),
	}
}

func (e *Extension) newContextCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "context",
		Short: "Inspect and verify bean context files",
		Long:  `Validate, list, and compare the XML bean context files in the workspace.`,
	}
	c.AddCommand(e.newValidateCmd())
	c.AddCommand(e.newBeansCmd())
	c.AddCommand(e.newDiffCmd())
	return c
}

// --- context validate ---

func (e *Extension) newValidateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "validate",
		Short: "Load every context file and verify all bean definitions",
		Long: `Performs a full load of the workspace context files.

Unreadable or malformed files are skipped and reported as warnings.
A file that parses but contains a bad definition (unknown type,
duplicate name, bad ref, failing initialiser) fails validation.
Use --strict to also fail on skipped files.`,
		Args: cobra.NoArgs,
		RunE: e.runValidate,
	}
	c.Flags().Bool(extension.FlagStrict, false, "Treat skipped context files as failure")
	return c
}

// validateResult is the JSON shape for context validate.
type validateResult struct {
	Loaded  []string `json:"loaded"`
	Skipped []string `json:"skipped,omitempty"`
	Beans   int      `json:"beans"`
}

func (e *Extension) runValidate(c *cobra.Command, _ []string) error {
	strict, _ := c.Flags().GetBool(extension.FlagStrict)
	confDir := e.ctx.ConfDir()

	l := log.Event("context:validate", "load").
		Author(cmd.Author()).
		Detail("conf", confDir).
		Detail("strict", strict)

	res, err := loader.Load(confDir)
	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(fmt.Errorf("context validate: %w", err))
	}
	defer res.Registry.Close()

	out := validateResult{Loaded: res.Loaded, Beans: len(res.Registry.Names())}
	for _, fe := range res.Skipped {
		out.Skipped = append(out.Skipped, fe.Error())
	}

	if strict && len(res.Skipped) > 0 {
		err := fmt.Errorf("%d context file(s) skipped", len(res.Skipped))
		l.Detail("skipped", len(res.Skipped)).Write(err)
		if !cmd.JSON() {
			for _, fe := range res.Skipped {
				fmt.Fprintf(cmd.Out(), "skipped: %v\n", fe)
			}
		}
		return cmd.PrintJSONError(fmt.Errorf("context validate: %w", err))
	}

	l.Detail("files", len(res.Loaded)).Detail("beans", out.Beans).Write(nil)

	if cmd.JSON() {
		return cmd.PrintJSON(out)
	}
	for _, fe := range res.Skipped {
		fmt.Fprintf(cmd.Out(), "warning: %v\n", fe)
	}
	fmt.Fprintf(cmd.Out(), "OK: %d file(s), %d bean(s)\n", len(res.Loaded), out.Beans)
	return nil
}

// --- context beans ---

func (e *Extension) newBeansCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "beans",
		Short: "List beans visible to the container",
		Long: `Lists beans defined by the loaded context files.

By default only enabled beans are shown: beans with no plugin prefix,
and beans owned by an installed plugin. Use --all to include beans
hidden by plugin state.

Use --type to restrict the list to beans implementing a catalog
interface:
  beanbridge context beans --type portal.dashboardComponent`,
		Args: cobra.NoArgs,
		RunE: e.runBeans,
	}
	c.Flags().Bool(extension.FlagAll, false, "Include beans hidden by plugin state")
	c.Flags().String(extension.FlagType, "", "Catalog interface id to filter by")
	return c
}

// beanInfo is the JSON shape for one listed bean.
type beanInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Scope   string `json:"scope"`
	Enabled bool   `json:"enabled"`
}

func (e *Extension) runBeans(c *cobra.Command, _ []string) error {
	all, _ := c.Flags().GetBool(extension.FlagAll)
	typeID, _ := c.Flags().GetString(extension.FlagType)

	mgr, err := e.ctx.Container()
	if err != nil {
		log.Event("context:beans", "list").Author(cmd.Author()).Write(err)
		return cmd.PrintJSONError(fmt.Errorf("context beans: %w", err))
	}
	reg := mgr.Parent()

	ifaces := catalog.Interfaces()
	if typeID != "" {
		if _, ok := ifaces[typeID]; !ok {
			return cmd.PrintJSONError(fmt.Errorf("context beans: unknown interface %q", typeID))
		}
	}

	names := reg.Names()
	sort.Strings(names)

	var list []beanInfo
	for _, name := range names {
		typ, err := reg.TypeOf(name)
		if err != nil {
			return cmd.PrintJSONError(fmt.Errorf("context beans: %w", err))
		}
		if typeID != "" && !typ.Implements(ifaces[typeID]) {
			continue
		}
		enabled := mgr.BeanEnabled(name)
		if !enabled && !all {
			continue
		}
		d, _ := reg.Definition(name)
		list = append(list, beanInfo{
			Name:    name,
			Type:    d.Type,
			Scope:   string(d.EffectiveScope()),
			Enabled: enabled,
		})
	}

	log.Event("context:beans", "list").
		Author(cmd.Author()).
		Detail("type", typeID).
		Detail("count", len(list)).
		Write(nil)

	if cmd.JSON() {
		return cmd.PrintJSON(list)
	}
	for _, b := range list {
		marker := ""
		if !b.Enabled {
			marker = "  (disabled)"
		}
		fmt.Fprintf(cmd.Out(), "%s  type=%s scope=%s%s\n", b.Name, b.Type, b.Scope, marker)
	}
	return nil
}

// --- context diff ---

func (e *Extension) newDiffCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "diff <conf-dir> [<conf-dir2>]",
		Short: "Compare the workspace contexts against another conf directory",
		Long: `Renders both context directories into a canonical bean listing and
prints a unified diff. With one argument the workspace conf is compared
against it; with two, the two directories are compared. Compares
declarations, not live containers, so both directories may contain beans
of types this binary doesn't know.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: e.runDiff,
	}
	c.Flags().Bool(extension.FlagNoColour, false, "Disable ANSI colour in diff output")
	return c
}

func (e *Extension) runDiff(c *cobra.Command, args []string) error {
	noColour, _ := c.Flags().GetBool(extension.FlagNoColour)
	ours, theirs := e.ctx.ConfDir(), args[0]
	if len(args) == 2 {
		ours, theirs = args[0], args[1]
	}

	l := log.Event("context:diff", "diff").
		Author(cmd.Author()).
		Detail("other", theirs)

	ourDefs, ourSkipped, err := loader.ParseDir(ours)
	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(fmt.Errorf("context diff: %w", err))
	}
	theirDefs, theirSkipped, err := loader.ParseDir(theirs)
	if err != nil {
		l.Write(err)
		return cmd.PrintJSONError(fmt.Errorf("context diff: %w", err))
	}

	if !cmd.JSON() {
		for _, fe := range append(ourSkipped, theirSkipped...) {
			fmt.Fprintf(cmd.Out(), "warning: %v\n", fe)
		}
	}

	r := diff.Compute(bean.Render(ourDefs), bean.Render(theirDefs), ours, theirs)
	l.Detail("changed", !r.Empty()).Write(nil)

	if cmd.JSON() {
		return cmd.PrintJSON(r)
	}
	if r.Empty() {
		fmt.Fprintln(cmd.Out(), "no differences")
		return nil
	}
	colour := !noColour && term.IsTerminal(int(os.Stdout.Fd()))
	fmt.Fprint(cmd.Out(), r.Format(colour))
	return nil
}
