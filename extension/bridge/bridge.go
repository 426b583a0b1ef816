// Package bridge provides the bridge extension for beanbridge.
// It registers commands: bridge (with subcommand plan).
package bridge

import (
	"fmt"

	"github.com/evdngsl/beanbridge/cmd"
	"github.com/evdngsl/beanbridge/extension"
	"github.com/evdngsl/beanbridge/internal/bridge"
	"github.com/evdngsl/beanbridge/internal/log"
	"github.com/spf13/cobra"
)

func init() {
	extension.Register(&Extension{})
}

// Extension implements the bridge extension.
type Extension struct {
	ctx extension.Context
}

// Compile-time interface compliance. Catches missing methods at build time
// rather than runtime, making interface changes safer to refactor.
var (
	_ extension.Extension     = (*Extension)(nil)
	_ extension.Initializable = (*Extension)(nil)
)

// Name returns "bridge" - this extension exposes the DI bridge.
func (e *Extension) Name() string { return "bridge" }

// Init receives the shared context from the command layer.
func (e *Extension) Init(ctx extension.Context) error {
	e.ctx = ctx
	return nil
}

// Commands returns the bridge command with its subcommands.
func (e *Extension) Commands() []*cobra.Command {
	return []*cobra.Command{
		e.newBridgeCmd(),
	}
}

func (e *Extension) newBridgeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "bridge",
		Short: "Bridge registry beans into the injection container",
		Long: `Inspect how registry beans are exposed to the dependency
injection container: named providers, interface bindings, and
injection points.`,
	}
	c.AddCommand(e.newPlanCmd())
	return c
}

func (e *Extension) newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show every registration the bridge would make",
		Long: `Computes the bridge plan without touching a container. For each
bean: the provider name, concrete type, the catalog interfaces it is
exposed under, and its injection points.`,
		Args: cobra.NoArgs,
		RunE: e.runPlan,
	}
}

// planEntry is the JSON shape for one planned registration.
type planEntry struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Interfaces []string    `json:"interfaces,omitempty"`
	Points     []planPoint `json:"points,omitempty"`
}

type planPoint struct {
	Field string `json:"field"`
	Ref   string `json:"ref,omitempty"`
	Type  string `json:"type"`
}

func (e *Extension) runPlan(_ *cobra.Command, _ []string) error {
	mgr, err := e.ctx.Container()
	if err != nil {
		log.Event("bridge:plan", "plan").Author(cmd.Author()).Write(err)
		return cmd.PrintJSONError(fmt.Errorf("bridge plan: %w", err))
	}

	plan, err := bridge.New(mgr.Parent()).Plan()

	log.Event("bridge:plan", "plan").
		Author(cmd.Author()).
		Detail("beans", len(plan)).
		Write(err)

	if err != nil {
		return cmd.PrintJSONError(fmt.Errorf("bridge plan: %w", err))
	}

	entries := make([]planEntry, 0, len(plan))
	for _, r := range plan {
		entry := planEntry{Name: r.Name, Type: r.Type.String()}
		for _, iface := range r.Interfaces {
			entry.Interfaces = append(entry.Interfaces, iface.ID)
		}
		for _, p := range r.Points {
			entry.Points = append(entry.Points, planPoint{Field: p.Field, Ref: p.Ref, Type: p.Type.String()})
		}
		entries = append(entries, entry)
	}

	if cmd.JSON() {
		return cmd.PrintJSON(entries)
	}
	for _, entry := range entries {
		fmt.Fprintf(cmd.Out(), "%s (%s)\n", entry.Name, entry.Type)
		for _, id := range entry.Interfaces {
			fmt.Fprintf(cmd.Out(), "  as %s\n", id)
		}
		for _, p := range entry.Points {
			target := p.Type
			if p.Ref != "" {
				target = p.Ref
			}
			fmt.Fprintf(cmd.Out(), "  inject %s <- %s\n", p.Field, target)
		}
	}
	return nil
}
