package ioc

// planInitOrder returns every registered id exactly once. Ids in the graph
// come first, breadth-first from the roots; a dependant is queued once all of
// its providers have been recorded. Ids outside the graph follow in
// registration order. g must be acyclic.
func planInitOrder(g *dependencyGraph, registered []string) []string {
	order := make([]string, 0, len(registered))
	seen := make(map[string]bool, len(registered))

	pending := make(map[string]int, len(g.incoming))
	for v, n := range g.incoming {
		pending[v] = n
	}

	queue := g.roots()
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if seen[v] {
			continue
		}
		seen[v] = true
		order = append(order, v)

		for _, w := range g.outgoing(v) {
			pending[w]--
			if pending[w] == 0 {
				queue = append(queue, w)
			}
		}
	}

	for _, id := range registered {
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
	}
	return order
}
