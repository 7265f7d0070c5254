package session

import (
	"fmt"

	"github.com/specialistvlad/pathfinder/internal/graphstore"
	"github.com/specialistvlad/pathfinder/internal/projector"
	"github.com/specialistvlad/pathfinder/internal/protocol"
)

// Status texts published by the controller itself. Everything else comes
// verbatim from the service.
const (
	StatusReady      = "Ready to search."
	StatusConnecting = "Connecting..."
)

func connectedStatus(alg protocol.Algorithm) string {
	if alg == "" {
		return "Connected! Searching..."
	}
	return fmt.Sprintf("Connected! Searching with %s...", alg)
}

func pathFoundStatus(length int) string {
	return fmt.Sprintf("Path found! Length: %d steps.", length)
}

// Phase is the lifecycle position of the controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseActive
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConnecting:
		return "connecting"
	case PhaseActive:
		return "active"
	case PhaseClosed:
		return "closed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText renders the phase by name in JSON and YAML documents.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ViewState is an immutable snapshot handed to the presentation layer.
type ViewState struct {
	Phase     Phase  `json:"phase" yaml:"phase"`
	Status    string `json:"status" yaml:"status"`
	Searching bool   `json:"searching" yaml:"searching"`
	Epoch     uint64 `json:"epoch" yaml:"epoch"`
	SessionID string `json:"session_id,omitempty" yaml:"session_id,omitempty"`

	Nodes       []protocol.NodeRecord `json:"nodes" yaml:"nodes"`
	Edges       []protocol.EdgeRecord `json:"edges" yaml:"edges"`
	Layers      []graphstore.Layer    `json:"layers" yaml:"layers"`
	WinningPath []string              `json:"winning_path" yaml:"winning_path"`
	// WinningEdges are the received edges that step along WinningPath.
	WinningEdges []protocol.EdgeRecord `json:"winning_edges" yaml:"winning_edges"`
	// Elapsed is the search time reported with path_found, if any.
	Elapsed *float64 `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`

	Tree projector.Tree `json:"tree" yaml:"tree"`
}

// IsWinner reports whether id is on the winning path.
func (v ViewState) IsWinner(id string) bool {
	for _, p := range v.WinningPath {
		if p == id {
			return true
		}
	}
	return false
}
