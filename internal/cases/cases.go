// Package cases selects numbered problem files.
package cases

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultPattern names the file of case n.
const DefaultPattern = "test%d.txt"

// MaxRange is the largest number of cases a single range may select.
const MaxRange = 10000

// Parse reads a selection such as "1 3-5, 7" into case numbers. Reversed
// ranges are swapped and repeated numbers keep their first position.
// Invalid tokens and ranges wider than MaxRange are reported and skipped.
func Parse(input string) ([]int, []error) {
	var (
		nums []int
		errs []error
		seen = make(map[int]bool)
	)
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			nums = append(nums, n)
		}
	}

	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	for _, field := range fields {
		lo, hi, isRange := strings.Cut(field, "-")
		if !isRange {
			n, err := strconv.Atoi(field)
			if err != nil || n < 0 {
				errs = append(errs, fmt.Errorf("invalid case number %q", field))
				continue
			}
			add(n)
			continue
		}

		start, err1 := strconv.Atoi(lo)
		end, err2 := strconv.Atoi(hi)
		if err1 != nil || err2 != nil || start < 0 || end < 0 {
			errs = append(errs, fmt.Errorf("invalid range %q", field))
			continue
		}
		if start > end {
			start, end = end, start
		}
		if end-start >= MaxRange {
			errs = append(errs, fmt.Errorf("range %q selects more than %d cases", field, MaxRange))
			continue
		}
		for n := start; n <= end; n++ {
			add(n)
		}
	}
	return nums, errs
}

// Path returns the file of case n in dir.
func Path(dir, pattern string, n int) string {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return filepath.Join(dir, fmt.Sprintf(pattern, n))
}

// Number reports the case number of a problem name, the file name of a
// case without its extension. "test3" is case 3 under the default pattern.
func Number(name, pattern string) (int, bool) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	stem := strings.TrimSuffix(pattern, filepath.Ext(pattern))

	var n int
	if _, err := fmt.Sscanf(name, stem, &n); err != nil || n < 0 {
		return 0, false
	}
	if fmt.Sprintf(stem, n) != name {
		return 0, false
	}
	return n, true
}
