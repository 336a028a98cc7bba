package ioc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func edgesOf(pairs ...string) []dependencyEdge {
	edges := make([]dependencyEdge, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		edges = append(edges, dependencyEdge{provider: pairs[i], dependant: pairs[i+1]})
	}
	return edges
}

func TestDependencyGraph(t *testing.T) {
	t.Run("VerticesInFirstAppearanceOrder", func(t *testing.T) {
		g := buildGraph(edgesOf("db", "repo", "config", "db", "repo", "api"))
		assert.Equal(t, []string{"db", "repo", "config", "api"}, g.vertices)
		assert.Equal(t, 2, g.index["config"])
	})

	t.Run("RootsHaveNoIncomingEdge", func(t *testing.T) {
		g := buildGraph(edgesOf("db", "repo", "config", "db", "log", "api"))
		assert.Equal(t, []string{"config", "log"}, g.roots())
	})

	t.Run("OutgoingInDeclarationOrder", func(t *testing.T) {
		g := buildGraph(edgesOf("config", "db", "config", "cache", "config", "api"))
		assert.Equal(t, []string{"db", "cache", "api"}, g.outgoing("config"))
		assert.Empty(t, g.outgoing("api"))
	})

	t.Run("DuplicateEdgesCollapse", func(t *testing.T) {
		g := buildGraph(edgesOf("a", "b", "a", "b"))
		assert.Equal(t, []string{"b"}, g.outgoing("a"))
		assert.Equal(t, 1, g.incoming["b"])
	})

	t.Run("CycleHasNoRoots", func(t *testing.T) {
		g := buildGraph(edgesOf("a", "b", "b", "a"))
		assert.Empty(t, g.roots())
		assert.Len(t, g.vertices, 2)
	})
}
