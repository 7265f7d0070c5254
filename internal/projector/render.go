package projector

import (
	"github.com/bytedance/sonic"
)

const labelLimit = 15

// RenderNode is the serialized form of a TreeNode handed to the renderer.
type RenderNode struct {
	Name       string       `json:"name" yaml:"name"`
	Attributes Attributes   `json:"attributes" yaml:"attributes"`
	Children   []RenderNode `json:"children" yaml:"children"`
}

// Render expands the tree into plain values. It returns nil for the empty
// tree. A child that is already one of its own ancestors is emitted without
// children so cyclic edge sets terminate.
//
// A node reachable through several parents is expanded once per route, so
// the output grows with the number of distinct root-to-node paths rather than
// with the node count. A chain of k diamonds (A->B, A->C, B->D, C->D, then
// again from D) renders 2^(k+2)-3 nodes. Size, the state endpoint and every
// report pay the same cost.
func (t Tree) Render() *RenderNode {
	if t.Root == nil {
		return nil
	}
	out := render(t.Root, make(map[*TreeNode]bool))
	return &out
}

func render(n *TreeNode, ancestors map[*TreeNode]bool) RenderNode {
	out := RenderNode{Name: n.Name, Attributes: n.Attributes, Children: []RenderNode{}}

	ancestors[n] = true
	defer delete(ancestors, n)

	for _, c := range n.Children {
		if ancestors[c] {
			out.Children = append(out.Children, RenderNode{Name: c.Name, Attributes: c.Attributes, Children: []RenderNode{}})
			continue
		}
		out.Children = append(out.Children, render(c, ancestors))
	}
	return out
}

// Size counts the nodes Render would emit, which can be exponential in the
// node count. See Render.
func (t Tree) Size() int {
	r := t.Render()
	if r == nil {
		return 0
	}
	return r.size()
}

func (r RenderNode) size() int {
	total := 1
	for _, c := range r.Children {
		total += c.size()
	}
	return total
}

// MarshalJSON emits {} for the empty tree so the renderer can show its
// "no data yet" placeholder.
func (t Tree) MarshalJSON() ([]byte, error) {
	r := t.Render()
	if r == nil {
		return []byte("{}"), nil
	}
	return sonic.ConfigStd.Marshal(r)
}

// MarshalYAML mirrors MarshalJSON.
func (t Tree) MarshalYAML() (any, error) {
	r := t.Render()
	if r == nil {
		return map[string]any{}, nil
	}
	return r, nil
}

// Label shortens a display name the way node captions are drawn.
func Label(name string) string {
	if name == "" {
		name = NoTitle
	}
	runes := []rune(name)
	if len(runes) <= labelLimit {
		return name
	}
	return string(runes[:labelLimit]) + "..."
}
