package problem

import "github.com/alecthomas/participle/v2/lexer"

// File is the parsed form of a problem file.
type File struct {
	Pos     lexer.Position
	NumVars int     `parser:"@Int"`
	Terms   []*Term `parser:"( @@ Comma? )*"`
}

// Term is a single prefixed value such as "m5" or "d12".
type Term struct {
	Pos   lexer.Position
	Token string `parser:"@Term"`
}

// Kind returns the term prefix.
func (t *Term) Kind() byte {
	return t.Token[0]
}
