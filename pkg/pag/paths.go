package pag

// ExistsDirectedPath reports whether there is a path from --> ... --> to.
// A node reaches itself only through a cycle.
func (g *Graph) ExistsDirectedPath(from, to string) bool {
	visited := map[string]bool{}
	queue := []string{from}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, c := range g.Children(n) {
			if c == to {
				return true
			}
			if !visited[c] {
				visited[c] = true
				queue = append(queue, c)
			}
		}
	}
	return false
}

// IsAncestorOf reports whether a == b or a has a directed path to b.
func (g *Graph) IsAncestorOf(a, b string) bool {
	return a == b || g.ExistsDirectedPath(a, b)
}

// IsPossibleAncestorOf reports whether a == b or there is a semidirected
// path from a to b: every step x, y has no arrowhead at x and no tail at y.
func (g *Graph) IsPossibleAncestorOf(a, b string) bool {
	if a == b {
		return true
	}
	visited := map[string]bool{a: true}
	queue := []string{a}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		for _, y := range g.adj[x] {
			if visited[y] || !g.IsPotentiallyDirected(x, y) {
				continue
			}
			if y == b {
				return true
			}
			visited[y] = true
			queue = append(queue, y)
		}
	}
	return false
}

// IsPotentiallyDirected reports whether the edge x *-* y could still be
// oriented x --> y: there is no arrowhead at x and no tail at y.
func (g *Graph) IsPotentiallyDirected(x, y string) bool {
	if !g.IsAdjacent(x, y) {
		return false
	}
	return g.Endpoint(y, x) != Arrow && g.Endpoint(x, y) != Tail
}

// ExistsDirectedCycle reports whether the directed edges form a cycle.
func (g *Graph) ExistsDirectedCycle() bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	var hasCycle bool

	var dfs func(n string)
	dfs = func(n string) {
		color[n] = gray
		for _, c := range g.Children(n) {
			switch color[c] {
			case white:
				dfs(c)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[n] = black
	}

	for _, n := range g.nodes {
		if color[n] == white {
			dfs(n)
			if hasCycle {
				return true
			}
		}
	}
	return false
}

// IsDSeparated reports whether x and y are m-separated given z.
func (g *Graph) IsDSeparated(x, y string, z []string) bool {
	return !g.IsMConnected(x, y, z)
}

// step is a reachability state: the walk arrived at node cur from prev and
// the incoming edge carries mark at cur.
type step struct {
	prev, cur string
	at        Endpoint
}

// IsMConnected reports whether some path between x and y is open given z.
//
// The search walks edges breadth first. A triple a - b - c passes when it is
// a non-collider and b is not in z, or when it is a collider and b is an
// ancestor of some node in z. Underlined triples count as non-colliders.
// When the walk enters b through an arrowhead and leaves along an undirected
// or nondirected edge, that edge is read as pointing away from b.
func (g *Graph) IsMConnected(x, y string, z []string) bool {
	if x == y {
		return true
	}
	given := make(map[string]bool, len(z))
	for _, n := range z {
		given[n] = true
	}
	ancestorOfZ := map[string]bool{}
	isAncestorOfZ := func(b string) bool {
		if v, ok := ancestorOfZ[b]; ok {
			return v
		}
		v := false
		for _, n := range z {
			if g.IsAncestorOf(b, n) {
				v = true
				break
			}
		}
		ancestorOfZ[b] = v
		return v
	}

	visited := map[step]bool{}
	var queue []step
	for _, b := range g.adj[x] {
		if b == y {
			return true
		}
		s := step{prev: x, cur: b, at: g.Endpoint(x, b)}
		visited[s] = true
		queue = append(queue, s)
	}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		a, b := s.prev, s.cur
		for _, c := range g.adj[b] {
			if c == a {
				continue
			}
			atB, atC := g.Endpoint(c, b), g.Endpoint(b, c)
			if s.at == Arrow {
				switch {
				case atB == Tail && atC == Tail:
					atB, atC = Tail, Arrow
				case atB == Circle && atC == Circle:
					atC = Arrow
				}
			}
			collider := s.at == Arrow && atB == Arrow && !g.IsUnderline(a, b, c)
			if (collider && !isAncestorOfZ(b)) || (!collider && given[b]) {
				continue
			}
			if c == y {
				return true
			}
			next := step{prev: b, cur: c, at: atC}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}
