package qm

import (
	"math/rand"
	"slices"
	"testing"
)

type problem struct {
	numVars   int
	minterms  []int
	dontCares []int
}

// randomProblems builds n reproducible problems with up to five variables.
func randomProblems(t *testing.T, n int) []problem {
	t.Helper()
	rng := rand.New(rand.NewSource(42))

	out := make([]problem, 0, n)
	for len(out) < n {
		numVars := 1 + rng.Intn(5)
		var p problem
		p.numVars = numVars
		for v := 0; v < 1<<numVars; v++ {
			switch rng.Intn(5) {
			case 0, 1:
				p.minterms = append(p.minterms, v)
			case 2:
				p.dontCares = append(p.dontCares, v)
			}
		}
		out = append(out, p)
	}
	return out
}

func dedupSorted(values []int) []int {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
