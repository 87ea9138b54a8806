// Package internal drives minimization of problem files.
//
// Engine reads a problem file with the problem package, minimizes it with
// qm and converts the solution into a types.Report carrying the prime
// implicants, the essential ones, every minimal cover as a sum of products
// and a Verilog module for the first cover.
//
// Reports of problem files are memoized in a Cache stored under a cache
// directory. Each entry remembers the engine settings and configuration file
// it was computed under, and is a miss once either differs or the problem
// file changes. Entries also expire.
//
// Watch re-runs problem files in a set of directories whenever they are
// written.
//
// Usage:
//
//	engine, err := internal.NewEngine(internal.Options{CacheDir: dir})
//	if err != nil {
//	    // handle error
//	}
//	report, err := engine.Run("cases/test3.txt")
package internal
