package graphstore

import (
	"sort"
	"sync"

	"github.com/specialistvlad/pathfinder/internal/protocol"
)

// Store is an in-memory, insertion-ordered graph of discovered pages.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]protocol.NodeRecord
	order []string // node ids in first-insertion order
	edges []protocol.EdgeRecord
}

// Layer is the set of nodes reported at one depth.
type Layer struct {
	Depth int                   `json:"depth" yaml:"depth"`
	Nodes []protocol.NodeRecord `json:"nodes" yaml:"nodes"`
}

// New creates a new, empty graph store.
func New() *Store {
	return &Store{
		nodes: make(map[string]protocol.NodeRecord),
	}
}

// AddNode inserts n unless a node with the same id is already known.
// It reports whether the node was inserted.
func (s *Store) AddNode(n protocol.NodeRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.ID]; exists {
		// First report wins; nodes are immutable once seen.
		return false
	}
	s.nodes[n.ID] = n
	s.order = append(s.order, n.ID)
	return true
}

// AddEdge appends e even if either endpoint is still unknown.
func (s *Store) AddEdge(e protocol.EdgeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.edges = append(s.edges, e)
}

// Node retrieves a single node by id.
func (s *Store) Node(id string) (protocol.NodeRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns every known node in first-insertion order.
func (s *Store) Nodes() []protocol.NodeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]protocol.NodeRecord, 0, len(s.order))
	for _, id := range s.order {
		nodes = append(nodes, s.nodes[id])
	}
	return nodes
}

// Edges returns every known edge in arrival order.
func (s *Store) Edges() []protocol.EdgeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]protocol.EdgeRecord, len(s.edges))
	copy(edges, s.edges)
	return edges
}

// Len returns the number of known nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Layers groups the known nodes by depth, shallowest first. Within a layer
// nodes keep their insertion order.
func (s *Store) Layers() []Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDepth := make(map[int]*Layer)
	var depths []int
	for _, id := range s.order {
		n := s.nodes[id]
		l, ok := byDepth[n.Depth]
		if !ok {
			l = &Layer{Depth: n.Depth}
			byDepth[n.Depth] = l
			depths = append(depths, n.Depth)
		}
		l.Nodes = append(l.Nodes, n)
	}
	sort.Ints(depths)

	layers := make([]Layer, 0, len(depths))
	for _, d := range depths {
		layers = append(layers, *byDepth[d])
	}
	return layers
}

// Reset drops every node and edge.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make(map[string]protocol.NodeRecord)
	s.order = nil
	s.edges = nil
}
