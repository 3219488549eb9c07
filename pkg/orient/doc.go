// Package orient implements the edge-mark orientation rules used to merge
// local causal models.
//
// # Rules
//
// R0 orients unshielded colliders from the separation ledgers. R1 (away
// from collider), R2 (away from ancestor) with the away-from-cycle rule, R3
// (double triangle) and R4 (discriminating paths) then propagate marks to a
// fixpoint. With [Options.CompleteRuleSet] the tail rules R5 to R10 run
// afterwards: R5 once, R6 and R7 to fixpoint, then R8, R9 and R10 to
// fixpoint, in that order.
//
// Every arrowhead placement goes through [ArrowpointAllowed], so a tail mark
// is never overwritten by an arrow.
//
// # Passes
//
// [Orienter.InitialPass] runs on the merged graph right after R0 and only
// fires R1, R3 and R4 on nodes that some local model measured jointly.
// [Orienter.Orient] is the unrestricted deterministic fixpoint.
// [Orienter.Final] is the branching variant used by the search: when R4
// cannot decide a discriminating path from the ledgers it returns one graph
// per admissible orientation.
package orient
