package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/qmin/engine"
	"github.com/gnoswap-labs/qmin/internal/qm"
	"github.com/gnoswap-labs/qmin/internal/types"
)

func TestMain(m *testing.M) {
	logger = zap.NewNop()
	os.Exit(m.Run())
}

func writeProblem(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testEngine(t *testing.T, dir string) engine.Config {
	t.Helper()
	config := engine.DefaultConfig()
	config.CacheDir = ""
	config.CasesDir = dir
	config.VerilogDir = filepath.Join(dir, "verilog")
	return config
}

func TestRunCases(t *testing.T) {
	dir := t.TempDir()
	writeProblem(t, dir, "test1.txt", "1 m1\n")
	writeProblem(t, dir, "test2.txt", "2 m0 m1 m2\n")
	writeProblem(t, dir, "test4.txt", "2 m9\n")

	config := testEngine(t, dir)
	eng, err := engine.New(config, logger)
	require.NoError(t, err)

	var out bytes.Buffer
	failed := runCases(&out, config, eng, []int{1, 2, 3, 4})

	assert.Equal(t, []int{3, 4}, failed)
	text := out.String()
	assert.Contains(t, text, "Processing 4 test case(s): [1 2 3 4]")
	assert.Contains(t, text, "TESTCASE 2 (2/4)")
	assert.Contains(t, text, "Solution 1: F = A' + B'")
	assert.Contains(t, text, "=== VERILOG CODE ===")
	assert.Contains(t, text, "cannot open file")
	assert.Contains(t, text, "Total test cases: 4")
	assert.Contains(t, text, "Successful: 2")
	assert.Contains(t, text, "Failed cases: [3 4]")

	content, err := os.ReadFile(filepath.Join(config.VerilogDir, "boolean_function_2.v"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "module boolean_function_2 ("))
	assert.FileExists(t, filepath.Join(config.VerilogDir, "boolean_function_1.v"))
}

func TestRunCasesTruncated(t *testing.T) {
	dir := t.TempDir()
	writeProblem(t, dir, "test1.txt", "3 m0 m1 m2 m5 m6 m7\n")

	config := testEngine(t, dir)
	config.MaxDepth = 1
	eng, err := engine.New(config, logger)
	require.NoError(t, err)

	var out bytes.Buffer
	failed := runCases(&out, config, eng, []int{1})

	assert.Equal(t, []int{1}, failed)
	assert.Contains(t, out.String(), "search truncated")
	assert.NoFileExists(t, filepath.Join(config.VerilogDir, "boolean_function_1.v"))
}

func TestCollectOutcomes(t *testing.T) {
	dir := t.TempDir()
	path := writeProblem(t, dir, "test1.txt", "3 m1 m3 m5 m7\n")

	eng, err := engine.New(testEngine(t, dir), logger)
	require.NoError(t, err)

	outcomes, err := collectOutcomes(context.Background(), eng, []string{"-", path}, strings.NewReader("2 M3\n"))
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, "stdin", outcomes[0].Path)
	assert.Equal(t, "A' + B'", outcomes[0].Report.Minimal())
	assert.Equal(t, path, outcomes[1].Path)
	assert.Equal(t, "C", outcomes[1].Report.Minimal())
	assert.Zero(t, countFailures(outcomes))

	var out bytes.Buffer
	printOutcomes(&out, outcomes)
	assert.Contains(t, out.String(), "Solution 1: F = C")
}

func TestWriteJSON(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.json")
	outcomes := []engine.Outcome{
		{Path: "a.txt", Report: &types.Report{Name: "a", Covers: []types.Cover{{Expression: "A"}}}},
		{Path: "b.txt", Err: errors.New("parse error")},
	}

	require.NoError(t, writeJSON(outcomes, outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var decoded map[string]struct {
		Report *types.Report `json:"report"`
		Error  string        `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "A", decoded["a.txt"].Report.Minimal())
	assert.Equal(t, "parse error", decoded["b.txt"].Error)
	assert.Nil(t, decoded["b.txt"].Report)
}

func TestCountFailures(t *testing.T) {
	outcomes := []engine.Outcome{
		{Path: "a"},
		{Path: "b", Err: qm.ErrSearchTruncated},
		{Path: "c", Err: errors.New("boom")},
	}
	assert.Equal(t, 2, countFailures(outcomes))
	assert.True(t, isTruncated(outcomes[1].Err))
	assert.False(t, isTruncated(outcomes[2].Err))
}

func TestChecker(t *testing.T) {
	var out bytes.Buffer
	c, err := newChecker(qm.DefaultConfig(), &out)
	require.NoError(t, err)

	dir := t.TempDir()
	good := writeProblem(t, dir, "test1.txt", "4 m0 m1 m2 m5 m6 m7 m8 m9 m10 m14\n")
	bad := writeProblem(t, dir, "test2.txt", "2 m7\n")

	report, err := c.Run(good)
	assert.NoError(t, err)
	assert.Nil(t, report)
	assert.Contains(t, out.String(), "ok   "+good+": 1 cover(s), 2 essential + 1 selected, sat ok")

	_, err = c.Run(bad)
	assert.ErrorIs(t, err, qm.ErrOutOfRangeTerm)

	_, err = c.RunSource("inline", []byte("3 m0 m1 m2 m5 m6 m7"))
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "ok   inline: 2 cover(s), 0 essential + 3 selected")
}

func TestInitConfigurationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".qmin.yaml")

	require.NoError(t, initConfigurationFile(path, false))
	config, err := engine.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, qm.DefaultMaxDepth, config.MaxDepth)

	assert.Error(t, initConfigurationFile(path, false))
	assert.NoError(t, initConfigurationFile(path, true))
}
