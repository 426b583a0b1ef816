package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextValidate_FreshWorkspace(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("context", "validate")
	env.contains(out, "OK: 1 file(s), 0 bean(s)")
}

func TestContextValidate_WithBeans(t *testing.T) {
	env := newTestEnv(t)
	env.writeContext("core_context.xml", testCoreContext)
	env.writeContext("plugins/newsroom_context.xml", testNewsroomContext)

	out := env.run("context", "validate")
	env.contains(out, "2 file(s), 3 bean(s)")
}

func TestContextValidate_SkipsMalformedFile(t *testing.T) {
	env := newTestEnv(t)
	env.writeContext("core_context.xml", testCoreContext)
	env.writeContext("plugins/newsroom_context.xml", testNewsroomContext)
	env.writeContext("plugins/oops_context.xml", testMalformedContext)

	// Malformed sibling is isolated: load succeeds with a warning
	out := env.run("context", "validate")
	env.contains(out, "warning:")
	env.contains(out, "oops_context.xml")
	env.contains(out, "OK:")

	// --strict turns the skip into a failure
	out, err := env.runErr("context", "validate", "--strict")
	require.Error(t, err)
	env.contains(out, "skipped")
}

func TestContextValidate_BadDefinitionIsFatal(t *testing.T) {
	env := newTestEnv(t)
	env.writeContext("core_context.xml", testCoreContext)
	env.writeContext("plugins/ghost_context.xml", testBrokenContext)

	out, err := env.runErr("context", "validate")
	require.Error(t, err)
	env.contains(out, "no.suchType")
}

func TestContextValidate_MissingCoreIsFatal(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.Remove(filepath.Join(env.confDir(), "core_context.xml")))

	out, err := env.runErr("context", "validate")
	require.Error(t, err)
	env.contains(out, "core_context.xml")
}

func TestContextBeans_FiltersByPluginState(t *testing.T) {
	env := newTestEnv(t)
	env.writeContext("core_context.xml", testCoreContext)
	env.writeContext("plugins/newsroom_context.xml", testNewsroomContext)

	// Unregistered plugin prefix: bean hidden by default
	out := env.run("context", "beans")
	env.contains(out, "core.cacheService")
	env.contains(out, "core.pages")
	assert.NotContains(t, out, "newsroom.dashboard")

	// --all shows it as disabled
	out = env.run("context", "beans", "--all")
	env.contains(out, "newsroom.dashboard")
	env.contains(out, "(disabled)")

	// Installing the plugin makes it visible
	env.run("plugin", "install", "newsroom")
	out = env.run("context", "beans")
	env.contains(out, "newsroom.dashboard")
	assert.NotContains(t, out, "(disabled)")
}

func TestContextBeans_TypeFilter(t *testing.T) {
	env := newTestEnv(t)
	env.writeContext("core_context.xml", testCoreContext)
	env.writeContext("plugins/newsroom_context.xml", testNewsroomContext)
	env.run("plugin", "install", "newsroom")

	out := env.run("context", "beans", "--type", "portal.dashboardComponent")
	env.contains(out, "newsroom.dashboard")
	assert.NotContains(t, out, "core.cacheService")

	out, err := env.runErr("context", "beans", "--type", "no.suchInterface")
	require.Error(t, err)
	env.contains(out, "unknown interface")
}

func TestContextDiff(t *testing.T) {
	env := newTestEnv(t)
	env.writeContext("core_context.xml", testCoreContext)

	// Second conf dir with a modified core context
	other := filepath.Join(env.dir, "other-conf")
	require.NoError(t, os.MkdirAll(other, 0755))
	modified := `<beans>
  <bean name="core.cacheService" type="core.cacheService">
    <property name="Capacity" value="128"/>
  </bean>
  <bean name="core.pages" type="portal.pageService">
    <property name="DefaultTemplate" value="default"/>
  </bean>
</beans>
`
	require.NoError(t, os.WriteFile(filepath.Join(other, "core_context.xml"), []byte(modified), 0644))

	out := env.run("context", "diff", other)
	env.contains(out, "- ")
	env.contains(out, "+ ")
	env.contains(out, "128")
}

func TestContextDiff_NoDifferences(t *testing.T) {
	env := newTestEnv(t)
	env.writeContext("core_context.xml", testCoreContext)

	other := filepath.Join(env.dir, "other-conf")
	require.NoError(t, os.MkdirAll(other, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(other, "core_context.xml"), []byte(testCoreContext), 0644))

	out := env.run("context", "diff", other)
	env.equals(out, "no differences")
}
