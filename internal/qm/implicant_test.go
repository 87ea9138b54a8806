package qm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type implicantView struct {
	Pattern string
	Covered []int
}

func view(implicants []Implicant) []implicantView {
	out := make([]implicantView, len(implicants))
	for i, im := range implicants {
		out[i] = implicantView{Pattern: im.Pattern.String(), Covered: im.Covered}
	}
	return out
}

func TestGeneratePrimeImplicants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		numVars   int
		minterms  []int
		dontCares []int
		want      []implicantView
	}{
		{
			name:     "single variable",
			numVars:  1,
			minterms: []int{1},
			want:     []implicantView{{"1", []int{1}}},
		},
		{
			name:     "two overlapping pairs",
			numVars:  2,
			minterms: []int{0, 1, 2},
			want: []implicantView{
				{"0-", []int{0, 1}},
				{"-0", []int{0, 2}},
			},
		},
		{
			name:     "odd values collapse to one",
			numVars:  3,
			minterms: []int{1, 3, 5, 7},
			want:     []implicantView{{"--1", []int{1, 3, 5, 7}}},
		},
		{
			name:     "no merges possible",
			numVars:  4,
			minterms: []int{1, 2, 4, 8},
			want: []implicantView{
				{"0001", []int{1}},
				{"0010", []int{2}},
				{"0100", []int{4}},
				{"1000", []int{8}},
			},
		},
		{
			name:     "six variables single minterm",
			numVars:  6,
			minterms: []int{63},
			want:     []implicantView{{"111111", []int{63}}},
		},
		{
			name:      "don't-care widens an implicant",
			numVars:   2,
			minterms:  []int{0, 1},
			dontCares: []int{3},
			want: []implicantView{
				{"0-", []int{0, 1}},
				{"-1", []int{1, 3}},
			},
		},
		{
			name:     "duplicates are collapsed",
			numVars:  3,
			minterms: []int{7, 1, 3, 5, 1, 7},
			want:     []implicantView{{"--1", []int{1, 3, 5, 7}}},
		},
		{
			name:     "tautology",
			numVars:  2,
			minterms: []int{0, 1, 2, 3},
			want:     []implicantView{{"--", []int{0, 1, 2, 3}}},
		},
		{
			name:    "empty function",
			numVars: 3,
			want:    []implicantView{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := GeneratePrimeImplicants(tt.numVars, tt.minterms, tt.dontCares)
			require.NoError(t, err)
			assert.Equal(t, tt.want, view(got))
		})
	}
}

func TestGeneratePrimeImplicantsCyclic(t *testing.T) {
	t.Parallel()

	got, err := GeneratePrimeImplicants(3, []int{0, 1, 2, 5, 6, 7}, nil)
	require.NoError(t, err)

	assert.Equal(t, []implicantView{
		{"00-", []int{0, 1}},
		{"0-0", []int{0, 2}},
		{"-01", []int{1, 5}},
		{"-10", []int{2, 6}},
		{"1-1", []int{5, 7}},
		{"11-", []int{6, 7}},
	}, view(got))
}

func TestGeneratePrimeImplicantsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		numVars   int
		minterms  []int
		dontCares []int
		want      error
	}{
		{"zero variables", 0, []int{0}, nil, ErrInvalidWidth},
		{"too many variables", 21, []int{0}, nil, ErrInvalidWidth},
		{"minterm too large", 3, []int{8}, nil, ErrOutOfRangeTerm},
		{"negative minterm", 3, []int{-1}, nil, ErrOutOfRangeTerm},
		{"don't-care too large", 2, []int{0}, []int{4}, ErrOutOfRangeTerm},
		{"value in both lists", 3, []int{1, 2}, []int{2}, ErrConflictingTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := GeneratePrimeImplicants(tt.numVars, tt.minterms, tt.dontCares)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPrimeImplicantsAreMaximal(t *testing.T) {
	t.Parallel()

	for _, p := range randomProblems(t, 40) {
		primes, err := GeneratePrimeImplicants(p.numVars, p.minterms, p.dontCares)
		require.NoError(t, err)

		for i := range primes {
			for j := i + 1; j < len(primes); j++ {
				assert.False(t, CanCombine(primes[i].Pattern, primes[j].Pattern),
					"%v and %v are adjacent", primes[i], primes[j])
				assert.NotEqual(t, primes[i].Pattern, primes[j].Pattern)
			}
			if i > 0 {
				assert.LessOrEqual(t, primes[i-1].Min(), primes[i].Min())
			}
		}

		seeds := unionSorted(dedupSorted(p.minterms), dedupSorted(p.dontCares))
		for _, im := range primes {
			var matched []int
			for _, v := range seeds {
				if im.Pattern.Matches(v) {
					matched = append(matched, v)
				}
			}
			assert.Equal(t, matched, im.Covered, "covered set of %s", im.Pattern)
		}
		for _, v := range seeds {
			found := false
			for _, im := range primes {
				found = found || im.Covers(v)
			}
			assert.True(t, found, "value %d not covered", v)
		}
	}
}
