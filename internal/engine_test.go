package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/qmin/internal/qm"
	"github.com/gnoswap-labs/qmin/internal/types"
)

func TestNewEngine(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(Options{})
	require.NoError(t, err)
	assert.NotNil(t, engine.parser)
	assert.Nil(t, engine.cache)
	assert.Equal(t, DefaultModulePrefix, engine.modulePrefix)
}

func TestEngineRunSource(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(Options{})
	require.NoError(t, err)

	report, err := engine.RunSource("test4", []byte("4 m0 m1 m2 m5 m6 m7 m8 m9 m10 m14\n"))
	require.NoError(t, err)

	assert.Equal(t, "test4", report.Name)
	assert.Len(t, report.Implicants, 6)
	assert.Equal(t, []int{5, 7}, report.Uncovered)
	require.Len(t, report.Covers, 1)
	assert.Equal(t, "B'C' + CD' + A'BD", report.Minimal())
	assert.False(t, report.Truncated)
	assert.True(t, strings.HasPrefix(report.Verilog, "module boolean_function_test4 ("))
}

func TestEngineRunSourceErrors(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(Options{})
	require.NoError(t, err)

	_, err = engine.RunSource("bad", []byte("2 m4\n"))
	assert.ErrorIs(t, err, qm.ErrOutOfRangeTerm)

	_, err = engine.RunSource("bad", []byte("2 m1 d1\n"))
	assert.ErrorIs(t, err, qm.ErrConflictingTerm)

	_, err = engine.RunSource("bad", []byte("two m1\n"))
	assert.Error(t, err)
}

func TestEngineTruncated(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(Options{Search: qm.Config{MaxDepth: 1}})
	require.NoError(t, err)

	report, err := engine.RunSource("cyclic", []byte("3 m0 m1 m2 m5 m6 m7\n"))
	assert.ErrorIs(t, err, qm.ErrSearchTruncated)
	require.NotNil(t, report)
	assert.True(t, report.Truncated)
	assert.Empty(t, report.Covers)
	assert.Empty(t, report.Verilog)
	assert.Len(t, report.Implicants, 6)
}

func TestEngineRunFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	filename := filepath.Join(dir, "test7.txt")
	require.NoError(t, os.WriteFile(filename, []byte("# maxterm form\n3 M0 M7\n"), 0o644))

	engine, err := NewEngine(Options{ModulePrefix: "f_", Output: "y"})
	require.NoError(t, err)

	report, err := engine.Run(filename)
	require.NoError(t, err)
	assert.True(t, report.Problem.Maxterms)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, report.Problem.Minterms)
	assert.Len(t, report.Covers, 2)
	assert.Contains(t, report.Verilog, "module f_test7 (")
	assert.Contains(t, report.Verilog, "output y\n")

	path, err := WriteVerilog(filepath.Join(dir, "out"), report, engine.ModuleName(report.Name))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "f_test7.v"), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, report.Verilog, string(content))
}

func TestEngineRunMissingFile(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(Options{})
	require.NoError(t, err)

	_, err = engine.Run(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestIdentifier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "test3", Identifier("test3"))
	assert.Equal(t, "my_case_1", Identifier("my-case.1"))
	assert.Equal(t, "f", Identifier(""))
}

func TestWriteVerilogWithoutCover(t *testing.T) {
	t.Parallel()

	_, err := WriteVerilog(t.TempDir(), &types.Report{Name: "x", Truncated: true}, "m")
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	engine, err := NewEngine(Options{})
	require.NoError(t, err)

	var (
		mu      sync.Mutex
		reports = make(map[string]*types.Report)
	)
	handle := func(filename string, report *types.Report, err error) {
		assert.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		reports[filepath.Base(filename)] = report
	}
	match := func(name string) bool { return strings.HasSuffix(name, ".txt") }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Watch(ctx, []string{dir}, match, handle) }()

	// give the watcher time to register the directory
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test1.txt"), []byte("2 m3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reports["test1.txt"] != nil
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "AB", reports["test1.txt"].Minimal())
	assert.NotContains(t, reports, "notes.md")
}
