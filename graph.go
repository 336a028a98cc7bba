package ioc

// dependencyGraph holds provider -> dependant edges over the ids named by
// AddSingletonDependency. Vertices are indexed by first appearance, which
// keeps cycle enumeration and planning deterministic.
type dependencyGraph struct {
	vertices []string
	index    map[string]int
	edges    map[string][]string
	incoming map[string]int
}

func newDependencyGraph() *dependencyGraph {
	return &dependencyGraph{
		index:    make(map[string]int),
		edges:    make(map[string][]string),
		incoming: make(map[string]int),
	}
}

// buildGraph creates a graph from edges in declaration order.
func buildGraph(edges []dependencyEdge) *dependencyGraph {
	g := newDependencyGraph()
	for _, e := range edges {
		g.addEdge(e.provider, e.dependant)
	}
	return g
}

func (g *dependencyGraph) addVertex(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.vertices)
	g.vertices = append(g.vertices, id)
}

func (g *dependencyGraph) addEdge(provider, dependant string) {
	g.addVertex(provider)
	g.addVertex(dependant)
	for _, d := range g.edges[provider] {
		if d == dependant {
			return
		}
	}
	g.edges[provider] = append(g.edges[provider], dependant)
	g.incoming[dependant]++
}

// roots returns providers that are never a dependant, in vertex order.
func (g *dependencyGraph) roots() []string {
	var out []string
	for _, v := range g.vertices {
		if g.incoming[v] == 0 {
			out = append(out, v)
		}
	}
	return out
}

func (g *dependencyGraph) outgoing(v string) []string {
	return g.edges[v]
}
