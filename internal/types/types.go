package types

// Problem is one boolean function to minimize, as read from a problem file.
type Problem struct {
	Name      string `json:"name"`
	NumVars   int    `json:"num_vars"`
	Minterms  []int  `json:"minterms"`
	DontCares []int  `json:"dont_cares,omitempty"`
	// Maxterms records that the file listed maxterms and Minterms was
	// derived as their complement.
	Maxterms bool `json:"maxterms,omitempty"`
}

// Implicant is a prime implicant as shown in reports.
type Implicant struct {
	Pattern    string `json:"pattern"`
	Covered    []int  `json:"covered"`
	Expression string `json:"expression"`
}

// Cover is one minimal solution: the selected non-essential implicants and
// the resulting sum of products.
type Cover struct {
	Selected   []int  `json:"selected"`
	Expression string `json:"expression"`
}

// Report is the outcome of minimizing one problem.
type Report struct {
	Name       string      `json:"name"`
	Problem    Problem     `json:"problem"`
	Implicants []Implicant `json:"prime_implicants"`
	Essential  []int       `json:"essential"`
	Uncovered  []int       `json:"uncovered"`
	Covers     []Cover     `json:"covers"`
	Verilog    string      `json:"verilog,omitempty"`
	// Truncated is set when the cover search hit its depth limit before
	// finding any cover.
	Truncated bool `json:"truncated,omitempty"`
}

// Minimal returns the expression of the first cover, or "" if there is none.
func (r Report) Minimal() string {
	if len(r.Covers) == 0 {
		return ""
	}
	return r.Covers[0].Expression
}
