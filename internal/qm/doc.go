// Package qm implements Quine-McCluskey minimization of single-output
// boolean functions.
//
// A function is described by the values for which it must be true
// (minterms) and the values whose output is unconstrained (don't-cares).
// Minimization runs as a strictly forward pipeline:
//
//   - GeneratePrimeImplicants merges adjacent terms round by round until
//     no further merge is possible.
//   - BuildCoverageChart maps every required minterm to the implicants
//     covering it. Don't-cares never appear as chart keys.
//   - FindEssentialImplicants extracts implicants that are the sole
//     coverer of some minterm.
//   - UncoveredMinterms computes what the essential implicants leave open.
//   - FindMinimalCovers searches the remaining implicants for every
//     smallest set that covers the open minterms.
//
// Minimize runs the whole pipeline and returns a Solution.
//
// Every stage only reads the output of the previous one, and nothing is
// retained between calls.
package qm
