package graphstore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/pathfinder/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, depth int) protocol.NodeRecord {
	return protocol.NodeRecord{ID: id, Title: "title " + id, Depth: depth}
}

func TestAddNode_PreservesFirstInsertionOrder(t *testing.T) {
	s := New()

	s.AddNode(node("C", 1))
	s.AddNode(node("A", 0))
	s.AddNode(node("B", 1))

	ids := make([]string, 0, 3)
	for _, n := range s.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"C", "A", "B"}, ids)
}

func TestAddNode_IsIdempotent(t *testing.T) {
	// --- Arrange ---
	s := New()
	require.True(t, s.AddNode(node("A", 0)))
	before := s.Nodes()

	// --- Act ---
	inserted := s.AddNode(protocol.NodeRecord{ID: "A", Title: "other", Depth: 4})

	// --- Assert ---
	assert.False(t, inserted)
	assert.Equal(t, before, s.Nodes())
	got, ok := s.Node("A")
	require.True(t, ok)
	assert.Equal(t, "title A", got.Title, "first report wins")
}

func TestAddEdge_KeepsDanglingEdges(t *testing.T) {
	s := New()
	s.AddNode(node("A", 0))

	s.AddEdge(protocol.EdgeRecord{Source: "A", Target: "Z"})
	s.AddEdge(protocol.EdgeRecord{Source: "A", Target: "Z"})

	assert.Equal(t, []protocol.EdgeRecord{
		{Source: "A", Target: "Z"},
		{Source: "A", Target: "Z"},
	}, s.Edges())
}

func TestSnapshots_AreCopies(t *testing.T) {
	s := New()
	s.AddNode(node("A", 0))
	s.AddEdge(protocol.EdgeRecord{Source: "A", Target: "B"})

	nodes := s.Nodes()
	edges := s.Edges()
	nodes[0].ID = "mutated"
	edges[0].Target = "mutated"

	assert.Equal(t, "A", s.Nodes()[0].ID)
	assert.Equal(t, "B", s.Edges()[0].Target)
}

func TestLayers_GroupsByDepth(t *testing.T) {
	s := New()
	s.AddNode(node("B", 1))
	s.AddNode(node("A", 0))
	s.AddNode(node("D", 2))
	s.AddNode(node("C", 1))

	layers := s.Layers()

	require.Len(t, layers, 3)
	assert.Equal(t, 0, layers[0].Depth)
	assert.Equal(t, 1, layers[1].Depth)
	assert.Equal(t, []protocol.NodeRecord{node("B", 1), node("C", 1)}, layers[1].Nodes)
	assert.Equal(t, 2, layers[2].Depth)
}

func TestReset_ClearsEverything(t *testing.T) {
	s := New()
	s.AddNode(node("A", 0))
	s.AddEdge(protocol.EdgeRecord{Source: "A", Target: "B"})

	s.Reset()

	assert.Empty(t, s.Nodes())
	assert.Empty(t, s.Edges())
	assert.Zero(t, s.Len())
	assert.True(t, s.AddNode(node("A", 0)), "ids are reusable after reset")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	numGoroutines := 50
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := range numGoroutines {
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("page-%d", i%10)
			s.AddNode(node(id, i%3))
			s.AddEdge(protocol.EdgeRecord{Source: id, Target: "page-0"})
			_ = s.Nodes()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, s.Len(), "duplicate ids must collapse")
	assert.Len(t, s.Edges(), numGoroutines)
}
