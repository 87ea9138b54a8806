package qm

import (
	"slices"
	"sort"
)

// Chart maps each required minterm to the indices of the implicants that
// cover it, in implicant order.
type Chart map[int][]int

// Minterms returns the chart keys in ascending order.
func (c Chart) Minterms() []int {
	keys := make([]int, 0, len(c))
	for m := range c {
		keys = append(keys, m)
	}
	sort.Ints(keys)
	return keys
}

// IndexSet is a set of implicant indices.
type IndexSet map[int]struct{}

// Has reports whether i is in the set.
func (s IndexSet) Has(i int) bool {
	_, ok := s[i]
	return ok
}

// Sorted returns the members in ascending order.
func (s IndexSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// BuildCoverageChart lists, for every required minterm, the implicants
// covering it. Values covered by an implicant but absent from minterms
// (don't-cares) never become keys.
func BuildCoverageChart(implicants []Implicant, minterms []int) Chart {
	chart := make(Chart, len(minterms))
	for _, m := range minterms {
		chart[m] = nil
	}
	for idx, im := range implicants {
		for _, v := range im.Covered {
			if entries, ok := chart[v]; ok {
				chart[v] = append(entries, idx)
			}
		}
	}
	return chart
}

// FindEssentialImplicants returns the implicants that are the only entry
// for at least one chart key, in index order, together with their indices.
func FindEssentialImplicants(implicants []Implicant, chart Chart) ([]Implicant, IndexSet) {
	essential := make(IndexSet)
	for _, entries := range chart {
		if len(entries) == 1 {
			essential[entries[0]] = struct{}{}
		}
	}

	records := make([]Implicant, 0, len(essential))
	for _, idx := range essential.Sorted() {
		records = append(records, implicants[idx])
	}
	return records, essential
}

// UncoveredMinterms returns the minterms not covered by any of essentials,
// in ascending order.
func UncoveredMinterms(essentials []Implicant, minterms []int) []int {
	var uncovered []int
	for _, m := range minterms {
		if !slices.ContainsFunc(essentials, func(im Implicant) bool { return im.Covers(m) }) {
			uncovered = append(uncovered, m)
		}
	}
	slices.Sort(uncovered)
	return slices.Compact(uncovered)
}
