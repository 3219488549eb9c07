// Package pag provides the mixed graph used to represent partial ancestral
// graphs (PAGs) and the candidate graphs explored while merging local
// causal models.
//
// # Overview
//
// Every edge carries an independent mark at each end: [Tail], [Arrow] or
// [Circle]. A circle means the mark is not yet determined. The common edge
// kinds follow from the pair of marks:
//
//	A --> B   directed (tail at A, arrow at B)
//	A <-> B   bidirected
//	A --- B   undirected
//	A o-o B   nondirected
//	A o-> B   partially oriented
//
// [Graph.Endpoint] reads the mark at the second argument and returns [Null]
// for non-adjacent nodes, so rule code can compare marks without checking
// adjacency first. [Graph.SetEndpoint] reports whether it changed anything,
// which the orientation rules use to detect a fixpoint.
//
// # Triples and underlines
//
// A [Triple] X - Y - Z is a definite collider when both edges have an
// arrowhead at Y. It is a definite non-collider when it has been
// underlined with [Graph.AddUnderline], or when Y points out along one of
// its edges. Triples are canonical, so (X,Y,Z) and (Z,Y,X) are one key.
//
// # Separation
//
// [Graph.IsMConnected] and [Graph.IsDSeparated] implement reachability-based
// m-separation that honours underlines. The search uses them to verify that
// a candidate graph neither predicts an independence the data contradicts
// nor a dependence the data contradicts.
//
// # Identity
//
// [Graph.Key] is a canonical text form and [Graph.Fingerprint] its 64-bit
// xxhash. The search keys its output set by fingerprint.
package pag
