// Package search enumerates every mixed graph consistent with a set of
// overlapping local causal models.
//
// Each [LocalModel] covers a subset of the variables and carries the
// separations (and optionally the dependencies) it observed. A [Search]
// merges them in five steps:
//
//  1. Start from the complete circle graph over all variables and delete
//     every edge some model separates. Orient unshielded colliders per
//     model and propagate with the initial rule pass.
//  2. For every model, find the minimal spanning treks of its marginal and
//     the witnesses that realise them (package trek). Edges every witness
//     of some trek needs are fixed.
//  3. Enumerate subsets of the remaining edges to remove, keeping those
//     that leave every trek a witness. Subsets are visited smallest first
//     and supersets of a rejected subset are skipped.
//  4. For every surviving skeleton, orient the colliders the witnesses
//     require, then enumerate sets of additional unshielded colliders with
//     the same superset memo, and run the branching final orientation on
//     each candidate.
//  5. Keep a candidate iff it is acyclic, still separates everything the
//     ledgers record, does not separate any recorded dependency, and did
//     not turn a known non-collider into a collider.
//
// The result is de-duplicated and sorted by canonical key, so two runs over
// the same input return the same slice.
//
// # Cancellation
//
// [Search.Run] checks its context between skeletons and between candidates
// and returns the context error with no partial output.
package search
