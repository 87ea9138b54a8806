package render

import (
	"strings"

	"github.com/gnoswap-labs/qmin/internal/qm"
)

// VarName returns the algebraic name of variable i: A, B, C, ...
func VarName(i int) string {
	return string(rune('A' + i))
}

// Expression renders a pattern as a product term, e.g. "1-0" as "AC'".
// A pattern without literals renders as "1".
func Expression(p qm.Pattern) string {
	var sb strings.Builder
	for i := 0; i < p.Width; i++ {
		switch p.At(i) {
		case '1':
			sb.WriteString(VarName(i))
		case '0':
			sb.WriteString(VarName(i))
			sb.WriteByte('\'')
		}
	}
	if sb.Len() == 0 {
		return "1"
	}
	return sb.String()
}

// SumOfProducts joins the product terms of patterns with " + ".
// The empty sum renders as "0".
func SumOfProducts(patterns []qm.Pattern) string {
	if len(patterns) == 0 {
		return "0"
	}
	terms := make([]string, len(patterns))
	for i, p := range patterns {
		terms[i] = Expression(p)
	}
	return strings.Join(terms, " + ")
}
