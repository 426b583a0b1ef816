package log

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupLog points the global logger at a temp database.
func setupLog(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test-log.db")
	old := dbPathFunc
	dbPathFunc = func() string { return path }
	t.Cleanup(func() {
		Close()
		dbPathFunc = old
	})

	require.NoError(t, Open())
	return path
}

func TestLog_WritesEntries(t *testing.T) {
	path := setupLog(t)
	SetWorkspace("/some/workspace/.beanbridge")

	Event("plugin:install", "install").Author("alice").Name("workflow").Detail("version", "1.0").Write(nil)
	Event("context:validate", "load").Write(errors.New("boom"))
	Close()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM log`).Scan(&count))
	assert.Equal(t, 2, count)

	var success int
	var errMsg sql.NullString
	require.NoError(t, db.QueryRow(
		`SELECT success, error FROM log WHERE source = 'context:validate'`).Scan(&success, &errMsg))
	assert.Equal(t, 0, success)
	assert.Equal(t, "boom", errMsg.String)

	var name, workspace string
	require.NoError(t, db.QueryRow(
		`SELECT name, workspace FROM log WHERE source = 'plugin:install'`).Scan(&name, &workspace))
	assert.Equal(t, "workflow", name)
	assert.Len(t, workspace, 16, "workspace is a 64-bit hash in hex")
}

func TestLog_NoopWhenClosed(t *testing.T) {
	// Logging without Open must be a silent no-op.
	Event("context:beans", "list").Write(nil)
}

func TestLog_OpenTwice(t *testing.T) {
	setupLog(t)
	require.NoError(t, Open(), "Open is idempotent")
}
