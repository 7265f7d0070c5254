// Package projector derives a rooted tree from the discovered graph so it
// can be drawn by a tree-rendering widget.
//
// The projection is recomputed from scratch on every change. Edges whose
// endpoints are not known yet are skipped and show up on a later projection
// once the missing node arrives. A node targeted by several edges is attached
// under every parent, so the result is a "straight expansion" of the graph
// rather than a canonical spanning tree.
package projector

import (
	"github.com/specialistvlad/pathfinder/internal/protocol"
)

// NoTitle is the display name of a node reported without a title.
const NoTitle = "No Title"

// Membership answers whether a node id is part of the winning path.
type Membership interface {
	Contains(id string) bool
}

// Attributes carries the per-node data the renderer needs.
type Attributes struct {
	URL      string `json:"url" yaml:"url"`
	Depth    int    `json:"depth" yaml:"depth"`
	IsWinner bool   `json:"isWinner" yaml:"isWinner"`
}

// TreeNode is one vertex of the projection. A TreeNode reachable through
// several edges is shared, so the structure may contain the same pointer at
// several positions, or even itself when the edge set has cycles.
type TreeNode struct {
	Name       string
	Attributes Attributes
	Children   []*TreeNode
}

// Tree is the result of a projection. The zero value is the empty tree.
type Tree struct {
	Root *TreeNode
}

// IsEmpty reports whether the projection has no root.
func (t Tree) IsEmpty() bool {
	return t.Root == nil
}

// Project builds the tree view of nodes and edges. winners may be nil.
//
// The root is the first node, in the given order, whose depth is 0. When
// there is no such node the empty Tree is returned.
func Project(nodes []protocol.NodeRecord, edges []protocol.EdgeRecord, winners Membership) Tree {
	if len(nodes) == 0 {
		return Tree{}
	}

	shells := make(map[string]*TreeNode, len(nodes))
	var root *TreeNode
	for _, n := range nodes {
		if _, seen := shells[n.ID]; seen {
			continue
		}
		name := n.Title
		if name == "" {
			name = NoTitle
		}
		shell := &TreeNode{
			Name: name,
			Attributes: Attributes{
				URL:      n.ID,
				Depth:    n.Depth,
				IsWinner: winners != nil && winners.Contains(n.ID),
			},
			Children: []*TreeNode{},
		}
		shells[n.ID] = shell
		if root == nil && n.Depth == 0 {
			root = shell
		}
	}

	for _, e := range edges {
		parent, ok := shells[e.Source]
		if !ok {
			continue
		}
		child, ok := shells[e.Target]
		if !ok {
			continue
		}
		parent.Children = append(parent.Children, child)
	}

	return Tree{Root: root}
}
