package protocol

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// ErrMalformed is wrapped by every Decode failure.
var ErrMalformed = errors.New("malformed message")

// MessageType discriminates inbound messages.
type MessageType string

const (
	TypeStatus    MessageType = "status"
	TypeNodeAdded MessageType = "node_added"
	TypeLinkAdded MessageType = "link_added"
	TypePathFound MessageType = "path_found"
)

// Known reports whether t is one of the message types this client handles.
func (t MessageType) Known() bool {
	switch t {
	case TypeStatus, TypeNodeAdded, TypeLinkAdded, TypePathFound:
		return true
	}
	return false
}

// Message is a decoded inbound message. Only the field matching Type is set.
type Message struct {
	Type MessageType `json:"type"`
	Msg  *string     `json:"msg,omitempty"`
	Node *NodeRecord `json:"node,omitempty"`
	Link *EdgeRecord `json:"link,omitempty"`
	Path []string    `json:"path,omitempty"`
	// Time is the service-reported search duration, passed through untouched.
	Time *float64 `json:"time,omitempty"`
}

// Decode parses and validates one inbound message. Messages with an unknown
// type are returned without error; callers decide whether to skip them.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := sonic.ConfigStd.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if m.Type == "" {
		return Message{}, fmt.Errorf("%w: missing type", ErrMalformed)
	}

	switch m.Type {
	case TypeStatus:
		if m.Msg == nil {
			return Message{}, fmt.Errorf("%w: status without msg", ErrMalformed)
		}
	case TypeNodeAdded:
		if m.Node == nil || m.Node.ID == "" {
			return Message{}, fmt.Errorf("%w: node_added without node id", ErrMalformed)
		}
		if m.Node.Depth < 0 {
			return Message{}, fmt.Errorf("%w: node %q has negative depth %d", ErrMalformed, m.Node.ID, m.Node.Depth)
		}
	case TypeLinkAdded:
		if m.Link == nil || m.Link.Source == "" || m.Link.Target == "" {
			return Message{}, fmt.Errorf("%w: link_added without both endpoints", ErrMalformed)
		}
	case TypePathFound:
		if m.Path == nil {
			return Message{}, fmt.Errorf("%w: path_found without path", ErrMalformed)
		}
	}
	return m, nil
}

// EncodeRequest renders the one outbound request of a session.
func EncodeRequest(cfg SearchConfig) ([]byte, error) {
	data, err := sonic.ConfigStd.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}
	return data, nil
}
