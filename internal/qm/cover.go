package qm

import (
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FindMinimalCovers returns every smallest set of non-essential implicant
// indices that covers the uncovered minterms. Each cover is sorted
// ascending; covers are listed in the order the search discovers them.
//
// An empty uncovered set yields a single empty cover. When the depth limit
// cut the search short and no cover was found, ErrSearchTruncated is
// returned. A search that completes without any cover returns no covers
// and a nil error.
func FindMinimalCovers(implicants []Implicant, chart Chart, uncovered []int, essential IndexSet, cfg Config) ([][]int, error) {
	if len(uncovered) == 0 {
		return [][]int{{}}, nil
	}

	residual := slices.Clone(uncovered)
	slices.Sort(residual)
	residual = slices.Compact(residual)

	candidates := make([][]int, len(residual))
	for pos, m := range residual {
		for _, idx := range chart[m] {
			if !essential.Has(idx) {
				candidates[pos] = append(candidates[pos], idx)
			}
		}
	}

	base := &coverSearch{
		implicants: implicants,
		residual:   residual,
		candidates: candidates,
		maxDepth:   cfg.maxDepth(),
	}

	var res searchResult
	if cfg.Parallel && len(candidates[0]) > 1 {
		res = base.runParallel()
	} else {
		res = base.clone().run()
	}

	if len(res.covers) == 0 && res.truncated {
		return nil, fmt.Errorf("%w: no cover within %d implicants", ErrSearchTruncated, base.maxDepth)
	}
	return res.covers, nil
}

type searchResult struct {
	best      int // -1 until a cover is found
	covers    [][]int
	truncated bool
}

// coverSearch is the state of one depth-first search. The path is an
// explicit stack; every push is undone before the next sibling is tried.
type coverSearch struct {
	implicants []Implicant
	residual   []int   // sorted obligation
	candidates [][]int // per residual position, non-essential coverers in chart order
	maxDepth   int

	path      []int
	onPath    []bool
	hits      []int // per residual position, number of path implicants covering it
	satisfied int

	result searchResult
	seen   map[string]struct{}
}

func (s *coverSearch) clone() *coverSearch {
	return &coverSearch{
		implicants: s.implicants,
		residual:   s.residual,
		candidates: s.candidates,
		maxDepth:   s.maxDepth,
		onPath:     make([]bool, len(s.implicants)),
		hits:       make([]int, len(s.residual)),
		result:     searchResult{best: -1},
		seen:       make(map[string]struct{}),
	}
}

func (s *coverSearch) run() searchResult {
	s.search()
	return s.result
}

// runParallel explores each candidate for the first residual minterm in
// its own goroutine. Branches keep private bounds and are reduced only
// after all of them finish.
func (s *coverSearch) runParallel() searchResult {
	first := s.candidates[0]
	branches := make([]searchResult, len(first))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, idx := range first {
		g.Go(func() error {
			b := s.clone()
			b.push(idx)
			b.search()
			branches[i] = b.result
			return nil
		})
	}
	_ = g.Wait()

	merged := searchResult{best: -1}
	for _, b := range branches {
		merged.truncated = merged.truncated || b.truncated
		if b.best >= 0 && (merged.best < 0 || b.best < merged.best) {
			merged.best = b.best
		}
	}
	seen := make(map[string]struct{})
	for _, b := range branches {
		if b.best != merged.best {
			continue
		}
		for _, c := range b.covers {
			k := coverKey(c)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			merged.covers = append(merged.covers, c)
		}
	}
	return merged
}

func (s *coverSearch) search() {
	if s.satisfied == len(s.residual) {
		s.record()
		return
	}
	if s.result.best >= 0 && len(s.path) >= s.result.best {
		return
	}
	if len(s.path) >= s.maxDepth {
		s.result.truncated = true
		return
	}

	pos := s.firstOpen()
	for _, idx := range s.candidates[pos] {
		if s.onPath[idx] {
			continue
		}
		s.push(idx)
		s.search()
		s.pop()
	}
}

func (s *coverSearch) firstOpen() int {
	for pos, n := range s.hits {
		if n == 0 {
			return pos
		}
	}
	return -1
}

func (s *coverSearch) push(idx int) {
	s.path = append(s.path, idx)
	s.onPath[idx] = true
	for _, v := range s.implicants[idx].Covered {
		if pos, ok := slices.BinarySearch(s.residual, v); ok {
			if s.hits[pos] == 0 {
				s.satisfied++
			}
			s.hits[pos]++
		}
	}
}

func (s *coverSearch) pop() {
	idx := s.path[len(s.path)-1]
	s.path = s.path[:len(s.path)-1]
	s.onPath[idx] = false
	for _, v := range s.implicants[idx].Covered {
		if pos, ok := slices.BinarySearch(s.residual, v); ok {
			s.hits[pos]--
			if s.hits[pos] == 0 {
				s.satisfied--
			}
		}
	}
}

func (s *coverSearch) record() {
	size := len(s.path)
	if s.result.best < 0 || size < s.result.best {
		s.result.best = size
		s.result.covers = nil
		clear(s.seen)
	}

	cover := slices.Clone(s.path)
	slices.Sort(cover)
	k := coverKey(cover)
	if _, dup := s.seen[k]; dup {
		return
	}
	s.seen[k] = struct{}{}
	s.result.covers = append(s.result.covers, cover)
}

func coverKey(cover []int) string {
	parts := make([]string, len(cover))
	for i, idx := range cover {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}
