package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlugin_ListEmpty(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("plugin", "list")
	env.equals(out, "no plugins registered")
}

func TestPlugin_InstallUninstall(t *testing.T) {
	env := newTestEnv(t)

	out := env.run("plugin", "install", "newsroom")
	env.contains(out, "Installed plugin newsroom")

	out = env.run("plugin", "list")
	env.contains(out, "newsroom")
	env.contains(out, "installed")

	out = env.run("plugin", "uninstall", "newsroom")
	env.contains(out, "Uninstalled plugin newsroom")

	out = env.run("plugin", "list")
	env.contains(out, "uninstalled")
}

func TestPlugin_UninstallUnknown(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.runErr("plugin", "uninstall", "ghost")
	require.Error(t, err)
	env.contains(out, "not found")
}

func TestPlugin_StatePersists(t *testing.T) {
	env := newTestEnv(t)

	env.run("plugin", "install", "newsroom")

	// Separate process, same workspace database
	out := env.run("plugin", "list")
	env.contains(out, "installed")
}

func TestPlugin_JSONOutput(t *testing.T) {
	env := newTestEnv(t)
	env.run("plugin", "install", "newsroom")

	out := env.run("plugin", "list", "-o", "json")
	assert.Contains(t, out, `"name":"newsroom"`)
	assert.Contains(t, out, `"installed":true`)
}

func TestPlugin_RequiresWorkspace(t *testing.T) {
	binary := buildBinary(t)
	dir := t.TempDir()
	env := &testEnv{t: t, dir: dir, home: dir, binary: binary}

	out, err := env.runErr("plugin", "list")
	require.Error(t, err)
	env.contains(out, "not initialised")
}
