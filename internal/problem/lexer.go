package problem

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes problem files.
//
//	4
//	m0, m1, m3, m7
//	d2, d5
//
// Terms carry their kind as a prefix: m (minterm), M (maxterm) and
// d or D (don't-care).
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Term", Pattern: `[mMdD][0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Comma", Pattern: `,`},
})
