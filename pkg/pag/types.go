package pag

import (
	"cmp"
	"fmt"
	"strings"
)

// Endpoint is the mark at one end of an edge.
//
// The zero value, [Null], is what [Graph.Endpoint] reports for two nodes that
// are not adjacent.
type Endpoint uint8

const (
	// Null marks the absence of an edge.
	Null Endpoint = iota
	// Tail is the "-" mark: the node at this end is an ancestor of the other.
	Tail
	// Arrow is the ">" mark: the node at this end is not an ancestor of the other.
	Arrow
	// Circle is the "o" mark: the orientation is not determined yet.
	Circle
)

// String returns the mark as it appears in edge notation.
func (e Endpoint) String() string {
	switch e {
	case Tail:
		return "tail"
	case Arrow:
		return "arrow"
	case Circle:
		return "circle"
	default:
		return "null"
	}
}

// ParseEndpoint converts the names produced by [Endpoint.String] back into
// marks. It is used by the model file formats.
func ParseEndpoint(s string) (Endpoint, error) {
	switch s {
	case "tail", "-":
		return Tail, nil
	case "arrow", ">", "<":
		return Arrow, nil
	case "circle", "o":
		return Circle, nil
	case "null", "":
		return Null, nil
	}
	return Null, fmt.Errorf("%w: %q", ErrInvalidEndpoint, s)
}

// Pair is the mark-free identity of an edge. A is always the smaller name,
// so Pair values compare equal regardless of argument order and can be used
// directly as map keys.
type Pair struct {
	A, B string
}

// NewPair returns the canonical pair for x and y.
func NewPair(x, y string) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// Has reports whether n is one of the two nodes.
func (p Pair) Has(n string) bool { return p.A == n || p.B == n }

// Other returns the node opposite n. The result is undefined if n is not
// part of the pair.
func (p Pair) Other(n string) string {
	if p.A == n {
		return p.B
	}
	return p.A
}

func (p Pair) String() string { return "{" + p.A + "," + p.B + "}" }

// ComparePairs orders pairs lexicographically.
func ComparePairs(p, q Pair) int {
	if c := cmp.Compare(p.A, q.A); c != 0 {
		return c
	}
	return cmp.Compare(p.B, q.B)
}

// Triple is a path X - Y - Z of length two. Triples are stored in canonical
// form with X <= Z, so (X,Y,Z) and (Z,Y,X) are the same key.
type Triple struct {
	X, Y, Z string
}

// NewTriple returns the canonical triple with middle node y.
func NewTriple(x, y, z string) Triple {
	if z < x {
		x, z = z, x
	}
	return Triple{X: x, Y: y, Z: z}
}

// Edges returns the two edges of the triple.
func (t Triple) Edges() (Pair, Pair) { return NewPair(t.X, t.Y), NewPair(t.Y, t.Z) }

func (t Triple) String() string { return "<" + t.X + "," + t.Y + "," + t.Z + ">" }

// CompareTriples orders triples by middle node, then by ends.
func CompareTriples(s, t Triple) int {
	if c := cmp.Compare(s.Y, t.Y); c != 0 {
		return c
	}
	if c := cmp.Compare(s.X, t.X); c != 0 {
		return c
	}
	return cmp.Compare(s.Z, t.Z)
}

// TripleKind classifies a triple by the marks at its middle node.
type TripleKind int

const (
	// Ambiguous triples are neither definite colliders nor definite
	// non-colliders yet.
	Ambiguous TripleKind = iota
	// DefiniteCollider triples have arrowheads at the middle node on both edges.
	DefiniteCollider
	// DefiniteNoncollider triples are underlined or have a tail at the
	// middle node pointing out along one edge.
	DefiniteNoncollider
)

func (k TripleKind) String() string {
	switch k {
	case DefiniteCollider:
		return "collider"
	case DefiniteNoncollider:
		return "noncollider"
	default:
		return "ambiguous"
	}
}

// Edge is a snapshot of one edge with its two marks. AtX is the mark at X,
// AtY the mark at Y.
type Edge struct {
	X, Y     string
	AtX, AtY Endpoint
}

// Pair returns the edge's identity without marks.
func (e Edge) Pair() Pair { return NewPair(e.X, e.Y) }

// String renders the edge in the usual PAG notation, e.g. "A o-> B".
func (e Edge) String() string {
	var left, right byte
	switch e.AtX {
	case Arrow:
		left = '<'
	case Circle:
		left = 'o'
	default:
		left = '-'
	}
	switch e.AtY {
	case Arrow:
		right = '>'
	case Circle:
		right = 'o'
	default:
		right = '-'
	}
	return e.X + " " + string([]byte{left, '-', right}) + " " + e.Y
}

// ParseEdge parses the notation produced by [Edge.String]: two node names
// around a three-character connector such as "o->", "<->" or "---".
func ParseEdge(s string) (Edge, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 || len(fields[1]) != 3 || fields[1][1] != '-' {
		return Edge{}, fmt.Errorf("%w: edge %q", ErrInvalidEndpoint, s)
	}
	conn := fields[1]
	atX, ok := markAt(conn[0], '<')
	if !ok {
		return Edge{}, fmt.Errorf("%w: edge %q", ErrInvalidEndpoint, s)
	}
	atY, ok := markAt(conn[2], '>')
	if !ok {
		return Edge{}, fmt.Errorf("%w: edge %q", ErrInvalidEndpoint, s)
	}
	return Edge{X: fields[0], Y: fields[2], AtX: atX, AtY: atY}, nil
}

func markAt(c, arrow byte) (Endpoint, bool) {
	switch c {
	case arrow:
		return Arrow, true
	case 'o':
		return Circle, true
	case '-':
		return Tail, true
	}
	return Null, false
}

// IsDirected reports whether the edge is X --> Y or X <-- Y.
func (e Edge) IsDirected() bool {
	return (e.AtX == Tail && e.AtY == Arrow) || (e.AtX == Arrow && e.AtY == Tail)
}

// IsBidirected reports whether the edge is X <-> Y.
func (e Edge) IsBidirected() bool { return e.AtX == Arrow && e.AtY == Arrow }

// IsUndirected reports whether the edge is X --- Y.
func (e Edge) IsUndirected() bool { return e.AtX == Tail && e.AtY == Tail }

// IsNondirected reports whether the edge is X o-o Y.
func (e Edge) IsNondirected() bool { return e.AtX == Circle && e.AtY == Circle }

// IsPartiallyOriented reports whether the edge is X o-> Y or X <-o Y.
func (e Edge) IsPartiallyOriented() bool {
	return (e.AtX == Circle && e.AtY == Arrow) || (e.AtX == Arrow && e.AtY == Circle)
}
