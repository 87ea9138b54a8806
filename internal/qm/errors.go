package qm

import (
	"errors"
	"fmt"
	"slices"
)

const (
	// MinVars and MaxVars bound the supported number of variables.
	MinVars = 1
	MaxVars = 20
)

var (
	// ErrInvalidWidth is returned when the number of variables is outside [MinVars, MaxVars].
	ErrInvalidWidth = errors.New("invalid number of variables")
	// ErrOutOfRangeTerm is returned when a minterm or don't-care is not in [0, 2^numVars).
	ErrOutOfRangeTerm = errors.New("term out of range")
	// ErrConflictingTerm is returned when a value is both a minterm and a don't-care.
	ErrConflictingTerm = errors.New("term is both a minterm and a don't-care")
	// ErrSearchTruncated is returned when the cover search hit the depth
	// limit before finding any cover.
	ErrSearchTruncated = errors.New("cover search truncated")
)

// validate checks the problem definition and returns the distinct values
// of minterms and dontCares, sorted ascending.
func validate(numVars int, minterms, dontCares []int) (req, dc []int, err error) {
	if numVars < MinVars || numVars > MaxVars {
		return nil, nil, fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidWidth, numVars, MinVars, MaxVars)
	}
	limit := 1 << uint(numVars)

	req, err = distinct(minterms, limit, "minterm")
	if err != nil {
		return nil, nil, err
	}
	dc, err = distinct(dontCares, limit, "don't-care")
	if err != nil {
		return nil, nil, err
	}

	// both lists are sorted, walk them together
	for i, j := 0, 0; i < len(req) && j < len(dc); {
		switch {
		case req[i] == dc[j]:
			return nil, nil, fmt.Errorf("%w: %d", ErrConflictingTerm, req[i])
		case req[i] < dc[j]:
			i++
		default:
			j++
		}
	}
	return req, dc, nil
}

func distinct(values []int, limit int, kind string) ([]int, error) {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if v < 0 || v >= limit {
			return nil, fmt.Errorf("%w: %s %d not in [0, %d)", ErrOutOfRangeTerm, kind, v, limit)
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	slices.Sort(out)
	return out, nil
}
