package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firesim/internal/recording"
	"firesim/internal/sims/fire"
)

const valley = "../scenario/testdata/valley.hcl"

func execute(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--env-file", ""))
	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestRunRandomLayout(t *testing.T) {
	out, _, err := execute(t, context.Background(), "run", "--width", "16", "--height", "12", "--ticks", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "tick=5 ")
	assert.Contains(t, out, "burning=")
}

func TestRunScenarioWithRecording(t *testing.T) {
	db := filepath.Join(t.TempDir(), "run.sqlite3")
	_, _, err := execute(t, context.Background(), "run", valley, "--ticks", "6", "--record", db, "--every", "3", "--frame-fields", "temperature")
	require.NoError(t, err)

	r, err := recording.Open(db)
	require.NoError(t, err)
	defer r.Close()
	runs, err := r.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 32, runs[0].Width)
	assert.Equal(t, valley, runs[0].Scenario)

	ticks, err := r.Ticks(runs[0].ID)
	require.NoError(t, err)
	require.Len(t, ticks, 6)
	assert.EqualValues(t, 6, ticks[5].Tick)

	snap, err := r.Frame(runs[0].ID, 3, fire.FieldTemperature)
	require.NoError(t, err)
	assert.Equal(t, 24, snap.Height)
}

func TestRunWritesExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "final.json")
	_, _, err := execute(t, context.Background(), "run", "--width", "10", "--height", "8", "--ticks", "2", "--out", path, "--fields", "temperature,burned")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	exp, err := fire.ReadExport(f)
	require.NoError(t, err)
	assert.EqualValues(t, 2, exp.Header.Tick)
	assert.Len(t, exp.Fields, 2)
}

func TestExportToStdout(t *testing.T) {
	out, _, err := execute(t, context.Background(), "export", "--width", "6", "--height", "4", "--fields", "temperature,burning")
	require.NoError(t, err)

	exp, err := fire.ReadExport(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 6, exp.Header.Width)
	assert.Equal(t, 4, exp.Header.Height)
	assert.EqualValues(t, 0, exp.Header.Tick)
	require.Contains(t, exp.Fields, "burning")
	burning := exp.Fields["burning"]
	require.Len(t, burning, 4)
	assert.Len(t, burning[0], 6)
}

func TestExportRejectsUnknownField(t *testing.T) {
	_, _, err := execute(t, context.Background(), "export", "--width", "6", "--height", "4", "--fields", "smoke")
	require.ErrorIs(t, err, fire.ErrUnknownField)
}

func TestRunRejectsBadInput(t *testing.T) {
	for name, args := range map[string][]string{
		"ignite format":  {"run", "--width", "6", "--height", "4", "--ignite", "3-4"},
		"ignite bounds":  {"run", "--width", "6", "--height", "4", "--ignite", "9:9"},
		"zero width":     {"run", "--width", "0", "--height", "4"},
		"missing file":   {"run", "does-not-exist.hcl"},
		"too many files": {"run", valley, valley},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := execute(t, context.Background(), args...)
			assert.Error(t, err)
		})
	}
}

func TestSweepPrintsOneRowPerHumidity(t *testing.T) {
	out, _, err := execute(t, context.Background(), "sweep", "--width", "16", "--height", "12", "--ticks", "30", "--humidity", "80,0,40", "--workers", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "humidity"))
	assert.True(t, strings.HasPrefix(lines[1], "0.0"))
	assert.True(t, strings.HasPrefix(lines[2], "40.0"))
	assert.True(t, strings.HasPrefix(lines[3], "80.0"))
}

func TestServeStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_, stderr, err := execute(t, ctx, "serve", "--width", "8", "--height", "6", "--tps", "60")
	require.NoError(t, err)
	assert.Contains(t, stderr, "monitor listening")
	assert.Contains(t, stderr, "monitor stopped")
}

func TestEnvironmentSetsLogLevel(t *testing.T) {
	t.Setenv(envLogLevel, "debug")
	_, stderr, err := execute(t, context.Background(), "run", "--width", "6", "--height", "4", "--ticks", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "msg=tick")

	_, stderr, err = execute(t, context.Background(), "run", "--width", "6", "--height", "4", "--ticks", "2", "--log-level", "warn")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "msg=tick")
	assert.NotContains(t, stderr, "run finished")
}

func TestDotenvFileIsLoaded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firesim.env")
	require.NoError(t, os.WriteFile(path, []byte(envLogFormat+"=json\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv(envLogFormat) })

	root := NewRootCmd()
	var stderr bytes.Buffer
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&stderr)
	root.SetArgs([]string{"run", "--width", "6", "--height", "4", "--ticks", "1", "--env-file", path})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, stderr.String(), `"msg":"run finished"`)
}

func TestParsePoints(t *testing.T) {
	points, err := parsePoints([]string{"1:2", " 3 : 4 "})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 4, points[1].Col)

	_, err = parsePoints([]string{"x:1"})
	assert.Error(t, err)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestCloseIntoJoinsCloseError(t *testing.T) {
	errCommit := errors.New("commit failed")
	errRun := errors.New("run failed")

	var err error
	closeInto(&err, closerFunc(func() error { return errCommit }))
	assert.ErrorIs(t, err, errCommit)

	err = errRun
	closeInto(&err, closerFunc(func() error { return errCommit }))
	assert.ErrorIs(t, err, errRun)
	assert.ErrorIs(t, err, errCommit)

	err = nil
	closeInto(&err, closerFunc(func() error { return nil }))
	assert.NoError(t, err)
}
