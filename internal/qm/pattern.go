package qm

import (
	"fmt"
	"math/bits"
	"strings"
)

// Pattern is a fixed-width ternary pattern over {0, 1, -}.
//
// Bits are packed: a set bit in Mask marks a '-' position, and the bits
// of Value under Mask are always zero. Position 0 of the textual form is
// the most significant bit.
type Pattern struct {
	Width int
	Value uint32
	Mask  uint32
}

// PatternOf returns the fully specified pattern of v.
func PatternOf(v, width int) Pattern {
	return Pattern{Width: width, Value: uint32(v) & widthMask(width)}
}

// ParsePattern builds a pattern from its ternary text form.
func ParsePattern(s string) (Pattern, error) {
	if len(s) == 0 || len(s) > MaxVars {
		return Pattern{}, fmt.Errorf("%w: pattern %q has width %d", ErrInvalidWidth, s, len(s))
	}
	p := Pattern{Width: len(s)}
	for i := 0; i < len(s); i++ {
		bit := uint32(1) << uint(len(s)-1-i)
		switch s[i] {
		case '0':
		case '1':
			p.Value |= bit
		case '-':
			p.Mask |= bit
		default:
			return Pattern{}, fmt.Errorf("invalid pattern character %q in %q", s[i], s)
		}
	}
	return p, nil
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the pattern in ternary form, e.g. "1-0".
func (p Pattern) String() string {
	var sb strings.Builder
	sb.Grow(p.Width)
	for i := p.Width - 1; i >= 0; i-- {
		bit := uint32(1) << uint(i)
		switch {
		case p.Mask&bit != 0:
			sb.WriteByte('-')
		case p.Value&bit != 0:
			sb.WriteByte('1')
		default:
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// At returns the character at position i of the ternary form.
func (p Pattern) At(i int) byte {
	bit := uint32(1) << uint(p.Width-1-i)
	switch {
	case p.Mask&bit != 0:
		return '-'
	case p.Value&bit != 0:
		return '1'
	default:
		return '0'
	}
}

// Ones returns the number of '1' positions.
func (p Pattern) Ones() int {
	return bits.OnesCount32(p.Value)
}

// Literals returns the number of non-'-' positions.
func (p Pattern) Literals() int {
	return p.Width - bits.OnesCount32(p.Mask)
}

// Matches reports whether v agrees with p on every non-'-' position.
func (p Pattern) Matches(v int) bool {
	return uint32(v)&widthMask(p.Width)&^p.Mask == p.Value
}

// CanCombine reports whether a and b are adjacent: same width, the same
// '-' placement, and exactly one differing specified bit.
func CanCombine(a, b Pattern) bool {
	if a.Width != b.Width || a.Mask != b.Mask {
		return false
	}
	return bits.OnesCount32(a.Value^b.Value) == 1
}

// Combine merges two adjacent patterns, turning the differing bit into '-'.
// The result is only meaningful when CanCombine(a, b) holds.
func Combine(a, b Pattern) Pattern {
	diff := a.Value ^ b.Value
	return Pattern{
		Width: a.Width,
		Value: a.Value &^ diff,
		Mask:  a.Mask | diff,
	}
}

func widthMask(width int) uint32 {
	if width >= 32 {
		return ^uint32(0)
	}
	return uint32(1)<<uint(width) - 1
}
