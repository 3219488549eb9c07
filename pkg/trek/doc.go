// Package trek finds the open paths that a merged graph must preserve.
//
// A local model over a marginal set of variables asserts, for every pair
// it reports as dependent, that some path between them is open. In the
// merged graph over all variables such a dependence is carried by a
// trek: a simple path with no definite collider. This package computes
//
//   - [Treks]: every trek between two nodes,
//   - [MinimalSpanning]: the shortest treks inside a marginal that together
//     account for every dependence the marginal exhibits,
//   - [EnsuringPaths]: for one such trek, every path in the full graph that
//     would realise it once the marginal's other variables are
//     conditioned on, together with the colliders the path needs and the
//     ancestral paths that keep those colliders open.
//
// # Concurrency
//
// [MinimalSpanning] is the only parallel step of the search. Node pairs are
// handed out to a fixed pool of goroutines through a mutex-guarded counter;
// each worker accumulates into a private map which is merged under the same
// lock. The caller blocks on the group and never observes partial results.
package trek
