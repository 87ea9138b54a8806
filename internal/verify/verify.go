// Package verify cross-checks minimization results independently of the
// cover search: by evaluating the truth table, by asking a SAT solver for
// a counterexample, and by computing the optimum cover size with MaxSAT.
package verify

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/crillab/gophersat/bf"
	"github.com/crillab/gophersat/maxsat"

	"github.com/gnoswap-labs/qmin/internal/qm"
	"github.com/gnoswap-labs/qmin/internal/render"
)

var (
	// ErrMismatch is returned when a minimized function disagrees with the
	// original one on a value that is not a don't-care.
	ErrMismatch = errors.New("minimized function differs from the original")
	// ErrNotMinimal is returned when a reported cover is larger than the optimum.
	ErrNotMinimal = errors.New("cover is not minimal")
	// ErrNoCover is returned when the residual minterms cannot be covered at all.
	ErrNoCover = errors.New("no cover exists")
)

// MaxSATVars bounds the width for which Check runs the SAT equivalence test.
const MaxSATVars = 12

// Result summarizes a successful Check.
type Result struct {
	MinimumCover  int
	CoversChecked int
	SATChecked    bool
}

// Check verifies every cover of sol against the truth table, confirms
// that the covers have the optimum size, and for small widths proves
// equivalence of the first cover with a SAT solver.
func Check(sol *qm.Solution) (Result, error) {
	var res Result

	for i := range sol.Covers {
		if err := TruthTable(sol.NumVars, sol.Minterms, sol.DontCares, sol.Selected(i)); err != nil {
			return res, fmt.Errorf("cover %d: %w", i+1, err)
		}
		res.CoversChecked++
	}

	best, err := MinimumCoverSize(sol.Implicants, sol.Uncovered, sol.Essential)
	if err != nil {
		return res, err
	}
	res.MinimumCover = best
	for i, cover := range sol.Covers {
		if len(cover) != best {
			return res, fmt.Errorf("%w: cover %d selects %d implicants, optimum is %d", ErrNotMinimal, i+1, len(cover), best)
		}
	}

	if len(sol.Covers) > 0 && sol.NumVars <= MaxSATVars {
		if err := Equivalent(sol.NumVars, sol.Minterms, sol.DontCares, sol.Selected(0)); err != nil {
			return res, err
		}
		res.SATChecked = true
	}
	return res, nil
}

// TruthTable evaluates patterns on every value outside dontCares and
// compares with membership in minterms.
func TruthTable(numVars int, minterms, dontCares []int, patterns []qm.Pattern) error {
	want := make(map[int]bool, len(minterms))
	for _, m := range minterms {
		want[m] = true
	}
	skip := make(map[int]bool, len(dontCares))
	for _, d := range dontCares {
		skip[d] = true
	}

	for v := 0; v < 1<<uint(numVars); v++ {
		if skip[v] {
			continue
		}
		if got := qm.Eval(patterns, v); got != want[v] {
			return fmt.Errorf("%w: value %d evaluates to %t", ErrMismatch, v, got)
		}
	}
	return nil
}

// Equivalent asks a SAT solver for a value outside dontCares on which the
// sum of products and the original function differ. Two queries are
// solved: a value the sum of products accepts that is neither a minterm
// nor a don't-care, and a minterm the sum of products rejects.
func Equivalent(numVars int, minterms, dontCares []int, patterns []qm.Pattern) error {
	if len(patterns) > 0 {
		extra := []bf.Formula{sum(patterns)}
		for _, v := range minterms {
			extra = append(extra, bf.Not(formula(qm.PatternOf(v, numVars))))
		}
		for _, v := range dontCares {
			extra = append(extra, bf.Not(formula(qm.PatternOf(v, numVars))))
		}
		if model := bf.Solve(bf.And(extra...)); model != nil {
			return fmt.Errorf("%w: counterexample %d is accepted", ErrMismatch, valueOf(model, numVars))
		}
	}

	if len(minterms) > 0 {
		seeds := make([]qm.Pattern, len(minterms))
		for i, v := range minterms {
			seeds[i] = qm.PatternOf(v, numVars)
		}
		missing := []bf.Formula{sum(seeds)}
		for _, p := range patterns {
			missing = append(missing, bf.Not(formula(p)))
		}
		if model := bf.Solve(bf.And(missing...)); model != nil {
			return fmt.Errorf("%w: counterexample %d is rejected", ErrMismatch, valueOf(model, numVars))
		}
	}
	return nil
}

// formula builds the conjunction of the literals of p. A pattern without
// literals is expressed as the tautology A or not A.
func formula(p qm.Pattern) bf.Formula {
	var lits []bf.Formula
	for i := 0; i < p.Width; i++ {
		switch p.At(i) {
		case '1':
			lits = append(lits, bf.Var(render.VarName(i)))
		case '0':
			lits = append(lits, bf.Not(bf.Var(render.VarName(i))))
		}
	}
	if len(lits) == 0 {
		a := bf.Var(render.VarName(0))
		return bf.Or(a, bf.Not(a))
	}
	return bf.And(lits...)
}

// sum builds the disjunction of the product terms of non-empty patterns.
func sum(patterns []qm.Pattern) bf.Formula {
	terms := make([]bf.Formula, len(patterns))
	for i, p := range patterns {
		terms[i] = formula(p)
	}
	return bf.Or(terms...)
}

func valueOf(model map[string]bool, numVars int) int {
	v := 0
	for i := 0; i < numVars; i++ {
		v <<= 1
		if model[render.VarName(i)] {
			v |= 1
		}
	}
	return v
}

// MinimumCoverSize computes the optimum number of non-essential implicants
// needed to cover uncovered, as a weighted partial MaxSAT problem: one hard
// clause per minterm over its coverers and one unit soft clause per
// implicant penalizing its selection.
func MinimumCoverSize(implicants []qm.Implicant, uncovered []int, essential qm.IndexSet) (int, error) {
	if len(uncovered) == 0 {
		return 0, nil
	}

	var constrs []maxsat.Constr
	used := make(map[int]bool)
	for _, m := range uncovered {
		var lits []maxsat.Lit
		for idx, im := range implicants {
			if essential.Has(idx) || !im.Covers(m) {
				continue
			}
			lits = append(lits, maxsat.Var(varName(idx)))
			used[idx] = true
		}
		if len(lits) == 0 {
			return 0, fmt.Errorf("%w: minterm %d has no candidate implicant", ErrNoCover, m)
		}
		constrs = append(constrs, maxsat.HardClause(lits...))
	}
	for idx := range implicants {
		if used[idx] {
			constrs = append(constrs, maxsat.SoftClause(maxsat.Not(varName(idx))))
		}
	}

	model, cost := maxsat.New(constrs...).Solve()
	if model == nil {
		return 0, ErrNoCover
	}
	return cost, nil
}

func varName(idx int) string {
	return "pi" + strconv.Itoa(idx)
}
