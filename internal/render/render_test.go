package render

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/qmin/internal/qm"
	"github.com/gnoswap-labs/qmin/internal/types"
)

func patterns(ss ...string) []qm.Pattern {
	out := make([]qm.Pattern, len(ss))
	for i, s := range ss {
		out[i] = qm.MustParsePattern(s)
	}
	return out
}

func TestExpression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    string
	}{
		{"1", "A"},
		{"0", "A'"},
		{"1-0", "AC'"},
		{"--1", "C"},
		{"0-01", "A'C'D"},
		{"---", "1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Expression(qm.MustParsePattern(tt.pattern)), tt.pattern)
	}
}

func TestSumOfProducts(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0", SumOfProducts(nil))
	assert.Equal(t, "A' + B'", SumOfProducts(patterns("0-", "-0")))
}

func TestVerilogTerm(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a & ~c", VerilogTerm(qm.MustParsePattern("1-0")))
	assert.Equal(t, "1'b1", VerilogTerm(qm.MustParsePattern("--")))
}

func TestVerilog(t *testing.T) {
	t.Parallel()

	got := Verilog("boolean_function_3", "", 3, patterns("1-0", "--1"))
	want := `module boolean_function_3 (
    input a, b, c,
    output x
);

    assign x = (a & ~c) |
               (c);

endmodule
`
	assert.Equal(t, want, got)
}

func TestVerilogEmpty(t *testing.T) {
	t.Parallel()

	got := Verilog("f", "y", 2, nil)
	assert.Contains(t, got, "output y\n")
	assert.Contains(t, got, "assign y = 1'b0;")
}

func TestReport(t *testing.T) {
	color.NoColor = true

	r := types.Report{
		Name:    "test2",
		Problem: types.Problem{NumVars: 2, Minterms: []int{0, 1, 2}},
		Implicants: []types.Implicant{
			{Pattern: "0-", Covered: []int{0, 1}, Expression: "A'"},
			{Pattern: "-0", Covered: []int{0, 2}, Expression: "B'"},
		},
		Essential: []int{0, 1},
		Covers:    []types.Cover{{Selected: []int{}, Expression: "A' + B'"}},
	}

	var sb strings.Builder
	require.NoError(t, Report(&sb, r))
	out := sb.String()

	assert.Contains(t, out, "Don't cares: None")
	assert.Contains(t, out, "PI1: 0- | Covers minterms: 0, 1 | Expression: A'")
	assert.Contains(t, out, "PI2: -0 | Covers minterms: 0, 2 | Expression: B'")
	assert.Contains(t, out, "None (all minterms covered by essential PIs)")
	assert.Contains(t, out, "Solution 1: F = A' + B'")
	assert.NotContains(t, out, "truncated")
}
