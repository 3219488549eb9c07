package pag

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrInvalidNode is returned by [Graph.AddNode] when the name is empty.
	ErrInvalidNode = errors.New("node name must not be empty")

	// ErrDuplicateNode is returned by [Graph.AddNode] when a node with the
	// same name already exists.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrUnknownNode is returned by edge operations that reference a node
	// not present in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when the two nodes are
	// already adjacent. A mixed graph holds at most one edge per pair.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both ends are the same node.
	ErrSelfLoop = errors.New("self loop")

	// ErrInvalidEndpoint is returned when a mark cannot be parsed or when an
	// edge is added with a [Null] mark.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)

// marks holds the two endpoints of an edge keyed by its [Pair]: atA is the
// mark at Pair.A, atB the mark at Pair.B.
type marks struct {
	atA, atB Endpoint
}

// Graph is a mixed graph whose edges carry a mark at each end.
//
// Nodes keep their insertion order. Edges are stored by [Pair], so each
// unordered pair has at most one edge. Besides the marks the graph carries a
// table of underlined triples (definite non-colliders) that the orientation
// rules consult.
//
// The zero value is not usable - use [New]. Graph is not safe for
// concurrent use; the search clones graphs before branching.
type Graph struct {
	nodes      []string
	index      map[string]int
	adj        map[string][]string
	edges      map[Pair]*marks
	underlines map[Triple]struct{}
}

// New creates a graph over the given nodes with no edges.
// It returns an error if a name is empty or repeated.
func New(nodes ...string) (*Graph, error) {
	g := &Graph{
		index:      make(map[string]int, len(nodes)),
		adj:        make(map[string][]string, len(nodes)),
		edges:      make(map[Pair]*marks),
		underlines: make(map[Triple]struct{}),
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddNode appends a node. Returns [ErrInvalidNode] for an empty name and
// [ErrDuplicateNode] if the name is taken.
func (g *Graph) AddNode(n string) error {
	if n == "" {
		return ErrInvalidNode
	}
	if _, ok := g.index[n]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n)
	}
	g.index[n] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

// RemoveNode deletes a node together with its edges and any underlined
// triple that mentions it. Unknown names are ignored.
func (g *Graph) RemoveNode(n string) {
	if _, ok := g.index[n]; !ok {
		return
	}
	for _, m := range slices.Clone(g.adj[n]) {
		g.RemoveEdge(n, m)
	}
	delete(g.adj, n)
	g.nodes = slices.DeleteFunc(g.nodes, func(s string) bool { return s == n })
	clear(g.index)
	for i, s := range g.nodes {
		g.index[s] = i
	}
	maps.DeleteFunc(g.underlines, func(t Triple, _ struct{}) bool {
		return t.X == n || t.Y == n || t.Z == n
	})
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(n string) bool {
	_, ok := g.index[n]
	return ok
}

// Nodes returns the node names in insertion order. The slice is a copy.
func (g *Graph) Nodes() []string { return slices.Clone(g.nodes) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// AddEdge connects x and y with mark atX at x and atY at y.
func (g *Graph) AddEdge(x, y string, atX, atY Endpoint) error {
	if x == y {
		return fmt.Errorf("%w: %s", ErrSelfLoop, x)
	}
	if !g.HasNode(x) {
		return fmt.Errorf("%w: %s", ErrUnknownNode, x)
	}
	if !g.HasNode(y) {
		return fmt.Errorf("%w: %s", ErrUnknownNode, y)
	}
	if atX == Null || atY == Null {
		return fmt.Errorf("%w: edge %s-%s needs two marks", ErrInvalidEndpoint, x, y)
	}
	p := NewPair(x, y)
	if _, ok := g.edges[p]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEdge, p)
	}
	m := &marks{}
	g.edges[p] = m
	g.set(p, m, x, atX)
	g.set(p, m, y, atY)
	g.adj[x] = append(g.adj[x], y)
	g.adj[y] = append(g.adj[y], x)
	return nil
}

// AddNondirectedEdge adds x o-o y.
func (g *Graph) AddNondirectedEdge(x, y string) error { return g.AddEdge(x, y, Circle, Circle) }

// AddDirectedEdge adds x --> y.
func (g *Graph) AddDirectedEdge(x, y string) error { return g.AddEdge(x, y, Tail, Arrow) }

// AddBidirectedEdge adds x <-> y.
func (g *Graph) AddBidirectedEdge(x, y string) error { return g.AddEdge(x, y, Arrow, Arrow) }

// RemoveEdge deletes the edge between x and y and reports whether one existed.
func (g *Graph) RemoveEdge(x, y string) bool {
	p := NewPair(x, y)
	if _, ok := g.edges[p]; !ok {
		return false
	}
	delete(g.edges, p)
	g.adj[x] = slices.DeleteFunc(g.adj[x], func(s string) bool { return s == y })
	g.adj[y] = slices.DeleteFunc(g.adj[y], func(s string) bool { return s == x })
	return true
}

// RemoveEdges deletes every edge in the set.
func (g *Graph) RemoveEdges(pairs map[Pair]struct{}) {
	for p := range pairs {
		g.RemoveEdge(p.A, p.B)
	}
}

// HasEdge reports whether the pair is an edge of the graph.
func (g *Graph) HasEdge(p Pair) bool {
	_, ok := g.edges[p]
	return ok
}

// IsAdjacent reports whether x and y share an edge.
func (g *Graph) IsAdjacent(x, y string) bool { return g.HasEdge(NewPair(x, y)) }

// Adjacent returns the neighbours of n in the order their edges were added.
// The returned slice must not be modified.
func (g *Graph) Adjacent(n string) []string { return g.adj[n] }

// Endpoint returns the mark at to on the edge between from and to, or
// [Null] if the nodes are not adjacent.
func (g *Graph) Endpoint(from, to string) Endpoint {
	m, ok := g.edges[NewPair(from, to)]
	if !ok {
		return Null
	}
	return g.get(NewPair(from, to), m, to)
}

// SetEndpoint sets the mark at to on the edge between from and to. It
// reports whether the mark changed; setting a mark on a missing edge is a
// no-op that returns false.
func (g *Graph) SetEndpoint(from, to string, e Endpoint) bool {
	p := NewPair(from, to)
	m, ok := g.edges[p]
	if !ok || e == Null {
		return false
	}
	if g.get(p, m, to) == e {
		return false
	}
	g.set(p, m, to, e)
	return true
}

func (g *Graph) get(p Pair, m *marks, at string) Endpoint {
	if p.A == at {
		return m.atA
	}
	return m.atB
}

func (g *Graph) set(p Pair, m *marks, at string, e Endpoint) {
	if p.A == at {
		m.atA = e
	} else {
		m.atB = e
	}
}

// Edge returns a snapshot of the edge between x and y with X = x.
func (g *Graph) Edge(x, y string) (Edge, bool) {
	if !g.IsAdjacent(x, y) {
		return Edge{}, false
	}
	return Edge{X: x, Y: y, AtX: g.Endpoint(y, x), AtY: g.Endpoint(x, y)}, true
}

// Edges returns every edge ordered by pair. Each edge is reported with
// X = Pair.A.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, p := range g.Pairs() {
		m := g.edges[p]
		out = append(out, Edge{X: p.A, Y: p.B, AtX: m.atA, AtY: m.atB})
	}
	return out
}

// Pairs returns the identities of every edge in lexicographic order.
func (g *Graph) Pairs() []Pair {
	return slices.SortedFunc(maps.Keys(g.edges), ComparePairs)
}

// NodesInTo returns the neighbours x of n whose edge carries mark e at n.
func (g *Graph) NodesInTo(n string, e Endpoint) []string {
	var out []string
	for _, x := range g.adj[n] {
		if g.Endpoint(x, n) == e {
			out = append(out, x)
		}
	}
	return out
}

// NodesOutTo returns the neighbours x of n whose edge carries mark e at x.
func (g *Graph) NodesOutTo(n string, e Endpoint) []string {
	var out []string
	for _, x := range g.adj[n] {
		if g.Endpoint(n, x) == e {
			out = append(out, x)
		}
	}
	return out
}

// IsParentOf reports whether a --> b.
func (g *Graph) IsParentOf(a, b string) bool {
	return g.Endpoint(b, a) == Tail && g.Endpoint(a, b) == Arrow
}

// IsDirectedFromTo is an alias for [Graph.IsParentOf].
func (g *Graph) IsDirectedFromTo(a, b string) bool { return g.IsParentOf(a, b) }

// Parents returns the nodes x with x --> n.
func (g *Graph) Parents(n string) []string {
	var out []string
	for _, x := range g.adj[n] {
		if g.IsParentOf(x, n) {
			out = append(out, x)
		}
	}
	return out
}

// Children returns the nodes x with n --> x.
func (g *Graph) Children(n string) []string {
	var out []string
	for _, x := range g.adj[n] {
		if g.IsParentOf(n, x) {
			out = append(out, x)
		}
	}
	return out
}

// IsDefCollider reports whether a *-> b <-* c.
func (g *Graph) IsDefCollider(a, b, c string) bool {
	return g.Endpoint(a, b) == Arrow && g.Endpoint(c, b) == Arrow
}

// IsDefNoncollider reports whether the triple is underlined or b has a
// directed edge out to a or c.
func (g *Graph) IsDefNoncollider(a, b, c string) bool {
	if g.IsUnderline(a, b, c) {
		return true
	}
	return g.IsParentOf(b, a) || g.IsParentOf(b, c)
}

// Classify returns the kind of the triple a - b - c.
func (g *Graph) Classify(a, b, c string) TripleKind {
	switch {
	case g.IsDefCollider(a, b, c):
		return DefiniteCollider
	case g.IsDefNoncollider(a, b, c):
		return DefiniteNoncollider
	}
	return Ambiguous
}

// AddUnderline records a - b - c as a definite non-collider.
func (g *Graph) AddUnderline(a, b, c string) { g.underlines[NewTriple(a, b, c)] = struct{}{} }

// RemoveUnderline deletes an underline.
func (g *Graph) RemoveUnderline(a, b, c string) { delete(g.underlines, NewTriple(a, b, c)) }

// IsUnderline reports whether a - b - c is underlined.
func (g *Graph) IsUnderline(a, b, c string) bool {
	_, ok := g.underlines[NewTriple(a, b, c)]
	return ok
}

// Underlines returns the underlined triples in canonical order.
func (g *Graph) Underlines() []Triple {
	return slices.SortedFunc(maps.Keys(g.underlines), CompareTriples)
}

// ClearUnderlines removes every underline.
func (g *Graph) ClearUnderlines() { clear(g.underlines) }

// Triples returns every triple X - Y - Z where Y is adjacent to both X and
// Z, in canonical form and canonical order. Shielded triples are included.
func (g *Graph) Triples() []Triple {
	var out []Triple
	for _, y := range g.nodes {
		adj := g.adj[y]
		for i := 0; i < len(adj); i++ {
			for j := i + 1; j < len(adj); j++ {
				out = append(out, NewTriple(adj[i], y, adj[j]))
			}
		}
	}
	slices.SortFunc(out, CompareTriples)
	return out
}

// FullyConnect replaces the edge set with a complete graph whose marks are
// all e.
func (g *Graph) FullyConnect(e Endpoint) {
	clear(g.edges)
	clear(g.adj)
	for i, x := range g.nodes {
		for _, y := range g.nodes[i+1:] {
			_ = g.AddEdge(x, y, e, e)
		}
	}
}

// ReorientAll sets both marks of every edge to e.
func (g *Graph) ReorientAll(e Endpoint) {
	for _, m := range g.edges {
		m.atA, m.atB = e, e
	}
}

// Clone returns a deep copy.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:      slices.Clone(g.nodes),
		index:      maps.Clone(g.index),
		adj:        make(map[string][]string, len(g.adj)),
		edges:      make(map[Pair]*marks, len(g.edges)),
		underlines: maps.Clone(g.underlines),
	}
	for n, a := range g.adj {
		c.adj[n] = slices.Clone(a)
	}
	for p, m := range g.edges {
		mm := *m
		c.edges[p] = &mm
	}
	return c
}

// Equal reports whether both graphs have the same nodes, edges and marks.
// Underlines and node order are ignored.
func (g *Graph) Equal(o *Graph) bool {
	if len(g.nodes) != len(o.nodes) || len(g.edges) != len(o.edges) {
		return false
	}
	for _, n := range g.nodes {
		if !o.HasNode(n) {
			return false
		}
	}
	for p, m := range g.edges {
		om, ok := o.edges[p]
		if !ok || *om != *m {
			return false
		}
	}
	return true
}

// Key returns a canonical text form: sorted node names, then every edge in
// pair order. Two graphs are [Graph.Equal] exactly when their keys match.
func (g *Graph) Key() string {
	var b strings.Builder
	b.WriteString(strings.Join(slices.Sorted(slices.Values(g.nodes)), ","))
	for _, e := range g.Edges() {
		b.WriteByte(';')
		b.WriteString(e.String())
	}
	return b.String()
}

// Fingerprint is the 64-bit xxhash of [Graph.Key].
func (g *Graph) Fingerprint() uint64 { return xxhash.Sum64String(g.Key()) }

// String lists the nodes and edges one per line.
func (g *Graph) String() string {
	var b strings.Builder
	b.WriteString("Graph Nodes:\n")
	b.WriteString(strings.Join(g.nodes, ";"))
	b.WriteString("\n\nGraph Edges:\n")
	for i, e := range g.Edges() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e)
	}
	return b.String()
}
