package ioc

// cycleSearch enumerates elementary cycles with Tarjan's point-stack
// backtracking. Only the state for the current root lives here; removed
// edges persist across roots because they always point below the root.
type cycleSearch struct {
	g       *dependencyGraph
	start   int
	points  []string
	marked  map[string]bool
	markedS []string
	removed map[string]map[string]bool
	cycles  [][]string
}

// findCycles returns every elementary cycle of g. Each cycle starts at the
// lowest-indexed vertex on it and lists vertices in edge order.
func findCycles(g *dependencyGraph) [][]string {
	s := &cycleSearch{
		g:       g,
		removed: make(map[string]map[string]bool),
	}
	for i, v := range g.vertices {
		s.start = i
		s.marked = make(map[string]bool)
		s.markedS = s.markedS[:0]
		s.points = s.points[:0]
		s.backtrack(v)
	}
	return s.cycles
}

func (s *cycleSearch) backtrack(v string) bool {
	found := false
	s.points = append(s.points, v)
	s.marked[v] = true
	s.markedS = append(s.markedS, v)

	for _, w := range s.g.outgoing(v) {
		if s.removed[v][w] {
			continue
		}
		wi := s.g.index[w]
		switch {
		case wi < s.start:
			s.remove(v, w)
		case wi == s.start:
			cycle := make([]string, len(s.points))
			copy(cycle, s.points)
			s.cycles = append(s.cycles, cycle)
			found = true
		case !s.marked[w]:
			if s.backtrack(w) {
				found = true
			}
		}
	}

	if found {
		for len(s.markedS) > 0 {
			u := s.markedS[len(s.markedS)-1]
			s.markedS = s.markedS[:len(s.markedS)-1]
			s.marked[u] = false
			if u == v {
				break
			}
		}
	}

	s.points = s.points[:len(s.points)-1]
	return found
}

func (s *cycleSearch) remove(v, w string) {
	if s.removed[v] == nil {
		s.removed[v] = make(map[string]bool)
	}
	s.removed[v][w] = true
}
