package problem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/gnoswap-labs/qmin/internal/qm"
	"github.com/gnoswap-labs/qmin/internal/types"
)

// ErrMixedTerms is returned when a file lists both minterms and maxterms.
var ErrMixedTerms = errors.New("minterms and maxterms cannot be mixed")

// Parser reads problem files.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a new problem file parser.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(Lexer),
		participle.Elide("Comment", "Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses a problem from r. name is used in error messages and as
// the problem name.
func (p *Parser) Parse(name string, r io.Reader) (types.Problem, error) {
	file, err := p.parser.Parse(name, r)
	if err != nil {
		return types.Problem{}, fmt.Errorf("parse error: %w", err)
	}
	return file.Problem(problemName(name))
}

// ParseString parses a problem from a string.
func (p *Parser) ParseString(name, input string) (types.Problem, error) {
	file, err := p.parser.ParseString(name, input)
	if err != nil {
		return types.Problem{}, fmt.Errorf("parse error: %w", err)
	}
	return file.Problem(problemName(name))
}

// ParseFile parses the problem stored at filename.
func (p *Parser) ParseFile(filename string) (types.Problem, error) {
	file, err := os.Open(filename)
	if err != nil {
		return types.Problem{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(filename, file)
}

// Problem validates the parsed file and converts it into a problem.
// Maxterm files are complemented: every value that is neither a maxterm
// nor a don't-care becomes a minterm.
func (f *File) Problem(name string) (types.Problem, error) {
	prob := types.Problem{Name: name, NumVars: f.NumVars}

	if f.NumVars < qm.MinVars || f.NumVars > qm.MaxVars {
		return prob, fmt.Errorf("%s: %w: %d (must be between %d and %d)",
			f.Pos, qm.ErrInvalidWidth, f.NumVars, qm.MinVars, qm.MaxVars)
	}
	limit := 1 << uint(f.NumVars)

	var minterms, maxterms []int
	for _, term := range f.Terms {
		v, err := strconv.Atoi(term.Token[1:])
		if err != nil {
			return prob, fmt.Errorf("%s: invalid term %q: %w", term.Pos, term.Token, err)
		}
		if v >= limit {
			return prob, fmt.Errorf("%s: %w: %s not in [0, %d)", term.Pos, qm.ErrOutOfRangeTerm, term.Token, limit)
		}

		switch term.Kind() {
		case 'm':
			minterms = append(minterms, v)
		case 'M':
			maxterms = append(maxterms, v)
		default:
			prob.DontCares = append(prob.DontCares, v)
		}
	}

	switch {
	case len(minterms) > 0 && len(maxterms) > 0:
		return prob, fmt.Errorf("%s: %w", f.Pos, ErrMixedTerms)
	case len(maxterms) > 0:
		prob.Maxterms = true
		prob.Minterms = complement(limit, maxterms, prob.DontCares)
	default:
		prob.Minterms = minterms
	}
	return prob, nil
}

func complement(limit int, maxterms, dontCares []int) []int {
	excluded := make(map[int]struct{}, len(maxterms)+len(dontCares))
	for _, v := range maxterms {
		excluded[v] = struct{}{}
	}
	for _, v := range dontCares {
		excluded[v] = struct{}{}
	}

	out := make([]int, 0, limit-len(excluded))
	for v := 0; v < limit; v++ {
		if _, ok := excluded[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

func problemName(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
