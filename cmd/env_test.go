// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full
// stack: command parsing -> extension layer -> loader/registry -> SQLite.
//
// Internal packages keep their own unit tests for container semantics
// (lookup filtering, cache invalidation, bridge planning). The tests here
// prove the same behaviour holds through the compiled binary, against a
// real workspace on disk.

package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the beanbridge binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		// Build to a temp location
		tmpDir, err := os.MkdirTemp("", "beanbridge-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "beanbridge"
		if os.PathSeparator == '\\' {
			binaryName = "beanbridge.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string // working directory holding the workspace
	home   string // fake HOME, keeps global config and audit log isolated
	binary string
}

// newTestEnv creates a temporary directory with an initialised beanbridge
// workspace.
//
// Note: init does not create config. Config is managed separately via
// "beanbridge config". HOME is pointed at the temp directory so global
// config and the audit log never touch the real user environment.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	binary := buildBinary(t)
	root := t.TempDir()
	dir := filepath.Join(root, "work")
	home := filepath.Join(root, "home")
	for _, d := range []string{dir, home} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}

	env := &testEnv{t: t, dir: dir, home: home, binary: binary}
	env.run("init")

	return env
}

// confDir returns the workspace conf directory.
func (e *testEnv) confDir() string {
	return filepath.Join(e.dir, ".beanbridge", "conf")
}

// writeContext writes a context file relative to the conf directory.
func (e *testEnv) writeContext(rel, content string) {
	e.t.Helper()
	path := filepath.Join(e.confDir(), rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("write %s: %v", rel, err)
	}
}

// run executes beanbridge with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("beanbridge %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes beanbridge and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), "HOME="+e.home, "USER=tester")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}

// Context file fixtures shared across tests. Types reference the built-in
// portal components registered by internal/components.
const (
	testCoreContext = `<beans>
  <bean name="core.cacheService" type="core.cacheService">
    <property name="Capacity" value="64"/>
  </bean>
  <bean name="core.pages" type="portal.pageService">
    <property name="DefaultTemplate" value="default"/>
  </bean>
</beans>
`

	testNewsroomContext = `<beans>
  <bean name="newsroom.dashboard" type="portal.newsDashboard">
    <property name="Title" value="Newsroom"/>
    <property name="Feed" value="https://example.org/feed"/>
  </bean>
</beans>
`

	testBrokenContext = `<beans>
  <bean name="ghost.widget" type="no.suchType"/>
</beans>
`

	testMalformedContext = `<beans>
  <bean name="oops.widget"
`
)
