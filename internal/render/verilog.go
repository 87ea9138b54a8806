package render

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/qmin/internal/qm"
)

// DefaultOutput is the name of the generated module's output port.
const DefaultOutput = "x"

func verilogVar(i int) string {
	return string(rune('a' + i))
}

// VerilogTerm renders a pattern as a Verilog conjunction, e.g. "a & ~c".
func VerilogTerm(p qm.Pattern) string {
	var parts []string
	for i := 0; i < p.Width; i++ {
		switch p.At(i) {
		case '1':
			parts = append(parts, verilogVar(i))
		case '0':
			parts = append(parts, "~"+verilogVar(i))
		}
	}
	if len(parts) == 0 {
		return "1'b1"
	}
	return strings.Join(parts, " & ")
}

// Verilog renders a module that computes the sum of products of patterns.
func Verilog(module, output string, numVars int, patterns []qm.Pattern) string {
	if output == "" {
		output = DefaultOutput
	}
	inputs := make([]string, numVars)
	for i := range inputs {
		inputs[i] = verilogVar(i)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "module %s (\n", module)
	fmt.Fprintf(&sb, "    input %s,\n", strings.Join(inputs, ", "))
	fmt.Fprintf(&sb, "    output %s\n", output)
	sb.WriteString(");\n\n")

	if len(patterns) == 0 {
		fmt.Fprintf(&sb, "    assign %s = 1'b0;\n", output)
	} else {
		terms := make([]string, len(patterns))
		for i, p := range patterns {
			terms[i] = "(" + VerilogTerm(p) + ")"
		}
		indent := strings.Repeat(" ", len("    assign  = ")+len(output))
		fmt.Fprintf(&sb, "    assign %s = %s;\n", output, strings.Join(terms, " |\n"+indent))
	}

	sb.WriteString("\nendmodule\n")
	return sb.String()
}
