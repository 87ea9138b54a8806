package qm

// Config controls the minimal-cover search.
type Config struct {
	// MaxDepth bounds the number of implicants a cover may select beyond
	// the essential ones. A branch that reaches it without covering
	// everything is abandoned. Zero or negative means DefaultMaxDepth.
	MaxDepth int

	// Parallel searches the first branching level concurrently.
	Parallel bool
}

// DefaultMaxDepth is the default cover search depth limit.
const DefaultMaxDepth = 15

// DefaultConfig returns the default search configuration.
func DefaultConfig() Config {
	return Config{
		MaxDepth: DefaultMaxDepth,
	}
}

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}
