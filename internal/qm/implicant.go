package qm

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Implicant is a pattern together with the seeded values it matches.
// Covered is sorted ascending and never empty.
type Implicant struct {
	Pattern Pattern
	Covered []int
}

// Covers reports whether v is one of the implicant's covered values.
func (im Implicant) Covers(v int) bool {
	_, ok := slices.BinarySearch(im.Covered, v)
	return ok
}

// Min returns the smallest covered value.
func (im Implicant) Min() int {
	return im.Covered[0]
}

func (im Implicant) String() string {
	parts := make([]string, len(im.Covered))
	for i, v := range im.Covered {
		parts[i] = strconv.Itoa(v)
	}
	return im.Pattern.String() + " {" + strings.Join(parts, ", ") + "}"
}

// GeneratePrimeImplicants returns the prime implicants of the function
// defined by minterms and dontCares, ordered by their smallest covered
// value.
func GeneratePrimeImplicants(numVars int, minterms, dontCares []int) ([]Implicant, error) {
	req, dc, err := validate(numVars, minterms, dontCares)
	if err != nil {
		return nil, err
	}
	return generate(numVars, unionSorted(req, dc)), nil
}

// generate runs merge rounds over seeds, which must be distinct and valid.
func generate(numVars int, seeds []int) []Implicant {
	current := make([]Implicant, len(seeds))
	for i, v := range seeds {
		current[i] = Implicant{Pattern: PatternOf(v, numVars), Covered: []int{v}}
	}

	var primes []Implicant
	recorded := make(map[Pattern]struct{})

	for len(current) > 0 {
		groups := groupByOnes(current)
		keys := make([]int, 0, len(groups))
		for k := range groups {
			keys = append(keys, k)
		}
		sort.Ints(keys)

		used := make([]bool, len(current))
		var next []Implicant
		index := make(map[Pattern]int)

		for _, k := range keys {
			upper, ok := groups[k+1]
			if !ok {
				continue
			}
			for _, i := range groups[k] {
				for _, j := range upper {
					a, b := current[i], current[j]
					if !CanCombine(a.Pattern, b.Pattern) {
						continue
					}
					used[i], used[j] = true, true

					merged := Combine(a.Pattern, b.Pattern)
					covered := unionSorted(a.Covered, b.Covered)
					if at, dup := index[merged]; dup {
						next[at].Covered = unionSorted(next[at].Covered, covered)
						continue
					}
					index[merged] = len(next)
					next = append(next, Implicant{Pattern: merged, Covered: covered})
				}
			}
		}

		for i, term := range current {
			if used[i] {
				continue
			}
			if _, dup := recorded[term.Pattern]; dup {
				continue
			}
			recorded[term.Pattern] = struct{}{}
			primes = append(primes, term)
		}

		current = next
	}

	sort.SliceStable(primes, func(i, j int) bool {
		return primes[i].Min() < primes[j].Min()
	})
	return primes
}

// groupByOnes buckets term indices by the number of '1' bits.
func groupByOnes(terms []Implicant) map[int][]int {
	groups := make(map[int][]int)
	for i, t := range terms {
		k := t.Pattern.Ones()
		groups[k] = append(groups[k], i)
	}
	return groups
}

// unionSorted merges two ascending slices without duplicates into a new slice.
func unionSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
