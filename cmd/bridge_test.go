package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBridgePlan(t *testing.T) {
	env := newTestEnv(t)
	env.writeContext("core_context.xml", testCoreContext)
	env.writeContext("plugins/newsroom_context.xml", testNewsroomContext)

	out := env.run("bridge", "plan")

	// Every bean gets a named provider line
	env.contains(out, "core.cacheService")
	env.contains(out, "core.pages")
	env.contains(out, "newsroom.dashboard")

	// Interface bindings come from the catalog
	env.contains(out, "as portal.contentService")
	env.contains(out, "as portal.dashboardComponent")

	// Injection points are reported with their target
	env.contains(out, "inject Cache <- core.cacheService")
}

func TestBridgePlan_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.writeContext("core_context.xml", testCoreContext)

	out := env.run("bridge", "plan", "-o", "json")
	env.contains(out, `"name":"core.pages"`)
	env.contains(out, `"interfaces":["portal.contentService"]`)
}

func TestBridgePlan_BrokenContext(t *testing.T) {
	env := newTestEnv(t)
	env.writeContext("core_context.xml", testCoreContext)
	env.writeContext("plugins/ghost_context.xml", testBrokenContext)

	out, err := env.runErr("bridge", "plan")
	require.Error(t, err)
	env.contains(out, "no.suchType")
}
