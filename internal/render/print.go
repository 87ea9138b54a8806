package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/gnoswap-labs/qmin/internal/types"
)

var (
	titleStyle   = color.New(color.FgCyan, color.Bold)
	sectionStyle = color.New(color.FgYellow, color.Bold)
	labelStyle   = color.New(color.FgBlue, color.Bold)
	exprStyle    = color.New(color.FgGreen, color.Bold)
	warnStyle    = color.New(color.FgRed, color.Bold)
)

// Report writes a human readable report of r to w.
func Report(w io.Writer, r types.Report) error {
	var b strings.Builder

	b.WriteString(titleStyle.Sprintf("== %s ==\n", r.Name))
	b.WriteString(labelStyle.Sprint("Number of variables: ") + strconv.Itoa(r.Problem.NumVars) + "\n")
	b.WriteString(labelStyle.Sprint("Minterms: ") + joinInts(r.Problem.Minterms, "None") + "\n")
	b.WriteString(labelStyle.Sprint("Don't cares: ") + joinInts(r.Problem.DontCares, "None") + "\n")

	b.WriteString(sectionStyle.Sprint("\n=== PRIME IMPLICANTS ===\n"))
	for i, im := range r.Implicants {
		fmt.Fprintf(&b, "%s %s | Covers minterms: %s | Expression: %s\n",
			labelStyle.Sprintf("PI%d:", i+1), im.Pattern, joinInts(im.Covered, ""), exprStyle.Sprint(im.Expression))
	}

	b.WriteString(sectionStyle.Sprint("\n=== ESSENTIAL PRIME IMPLICANTS ===\n"))
	if len(r.Essential) == 0 {
		b.WriteString("None\n")
	}
	for _, idx := range r.Essential {
		b.WriteString(r.Implicants[idx].Expression + "\n")
	}

	b.WriteString(sectionStyle.Sprint("\n=== UNCOVERED MINTERMS ===\n"))
	if len(r.Uncovered) == 0 {
		b.WriteString("None (all minterms covered by essential PIs)\n")
	} else {
		b.WriteString(joinInts(r.Uncovered, "") + "\n")
	}

	b.WriteString(sectionStyle.Sprint("\n=== MINIMIZED BOOLEAN EXPRESSION(S) ===\n"))
	if r.Truncated {
		b.WriteString(warnStyle.Sprint("search truncated: no cover found within the depth limit\n"))
	}
	for i, c := range r.Covers {
		fmt.Fprintf(&b, "%s F = %s\n", labelStyle.Sprintf("Solution %d:", i+1), exprStyle.Sprint(c.Expression))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func joinInts(values []int, empty string) string {
	if len(values) == 0 {
		return empty
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
