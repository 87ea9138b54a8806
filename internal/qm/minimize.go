package qm

// Solution is the full result of minimizing one function.
type Solution struct {
	NumVars   int
	Minterms  []int
	DontCares []int

	Implicants []Implicant
	Chart      Chart
	Essentials []Implicant
	Essential  IndexSet
	Uncovered  []int

	// Covers holds every minimal selection of non-essential implicant
	// indices. It is empty only if no cover exists.
	Covers [][]int
}

// Minimize runs the complete pipeline for one function.
//
// The returned error wraps ErrInvalidWidth, ErrOutOfRangeTerm or
// ErrConflictingTerm for invalid input, and ErrSearchTruncated when the
// depth limit prevented finding any cover. In the latter case the
// partial Solution, without covers, is returned alongside the error.
func Minimize(numVars int, minterms, dontCares []int, cfg Config) (*Solution, error) {
	req, dc, err := validate(numVars, minterms, dontCares)
	if err != nil {
		return nil, err
	}

	implicants := generate(numVars, unionSorted(req, dc))
	chart := BuildCoverageChart(implicants, req)
	essentials, essential := FindEssentialImplicants(implicants, chart)
	uncovered := UncoveredMinterms(essentials, req)

	sol := &Solution{
		NumVars:    numVars,
		Minterms:   req,
		DontCares:  dc,
		Implicants: implicants,
		Chart:      chart,
		Essentials: essentials,
		Essential:  essential,
		Uncovered:  uncovered,
	}

	covers, err := FindMinimalCovers(implicants, chart, uncovered, essential, cfg)
	if err != nil {
		return sol, err
	}
	sol.Covers = covers
	return sol, nil
}

// Selected returns the patterns of the essential implicants followed by
// those of cover i.
func (s *Solution) Selected(i int) []Pattern {
	patterns := make([]Pattern, 0, len(s.Essentials)+len(s.Covers[i]))
	for _, im := range s.Essentials {
		patterns = append(patterns, im.Pattern)
	}
	for _, idx := range s.Covers[i] {
		patterns = append(patterns, s.Implicants[idx].Pattern)
	}
	return patterns
}

// Eval evaluates the minimized function of cover i at v.
func (s *Solution) Eval(i, v int) bool {
	return Eval(s.Selected(i), v)
}

// Eval reports whether some pattern in the sum of products matches v.
func Eval(patterns []Pattern, v int) bool {
	for _, p := range patterns {
		if p.Matches(v) {
			return true
		}
	}
	return false
}
