package jobs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScheduleFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScheduleFile_RoundTrip(t *testing.T) {
	path := writeScheduleFile(t, "schedule.json", `{"name":"nightly-sweep","expr":"0 2 * * *"}`)

	def, sched, err := LoadScheduleFile(path)
	require.NoError(t, err)
	assert.Equal(t, "nightly-sweep", def.Name)
	assert.Equal(t, "0 2 * * *", def.Expr)
	assert.False(t, sched.IsZero())
	assert.Equal(t, "0 2 * * *", sched.String())
}

func TestLoadScheduleFile_MissingFile(t *testing.T) {
	_, _, err := LoadScheduleFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadScheduleFile_InvalidJSON(t *testing.T) {
	path := writeScheduleFile(t, "bad.json", `{"name":"oops","expr":}`)

	_, _, err := LoadScheduleFile(path)
	assert.Error(t, err)
}

func TestLoadScheduleFile_InvalidExpr(t *testing.T) {
	path := writeScheduleFile(t, "bad-expr.json", `{"name":"oops","expr":"not a cron expr"}`)

	_, _, err := LoadScheduleFile(path)
	assert.Error(t, err)
}
