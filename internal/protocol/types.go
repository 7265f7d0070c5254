package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxNodes is the exploration budget used when none is configured.
const DefaultMaxNodes = 100

// ErrInvalidConfig is wrapped by every SearchConfig validation failure.
var ErrInvalidConfig = errors.New("invalid search config")

// NodeRecord is a discovered page. ID is the page URL and the unique key.
type NodeRecord struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Depth int    `json:"depth" yaml:"depth"`
}

// EdgeRecord is a directed link between two node ids. Either endpoint may
// be unknown to the graph when the edge arrives.
type EdgeRecord struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Algorithm names the search strategy the service should use.
type Algorithm string

const (
	AlgorithmBFS    Algorithm = "BFS"
	AlgorithmDFS    Algorithm = "DFS"
	AlgorithmIDS    Algorithm = "IDS"
	AlgorithmUCS    Algorithm = "UCS"
	AlgorithmGreedy Algorithm = "GREEDY"
)

// Algorithms lists every strategy the service understands.
var Algorithms = []Algorithm{AlgorithmBFS, AlgorithmDFS, AlgorithmIDS, AlgorithmUCS, AlgorithmGreedy}

// ParseAlgorithm normalizes s and checks it against Algorithms. An empty
// string is valid and means "let the service decide".
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, a := range Algorithms {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown algorithm %q", ErrInvalidConfig, s)
}

// SearchConfig is the request sent once per session.
type SearchConfig struct {
	StartURL  string    `json:"start_url" yaml:"start_url"`
	TargetURL string    `json:"target_url" yaml:"target_url"`
	MaxNodes  int       `json:"max_nodes" yaml:"max_nodes"`
	Algorithm Algorithm `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
}

// Validate reports every problem with c at once.
func (c SearchConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.StartURL) == "" {
		errs = append(errs, fmt.Errorf("%w: start_url is required", ErrInvalidConfig))
	}
	if strings.TrimSpace(c.TargetURL) == "" {
		errs = append(errs, fmt.Errorf("%w: target_url is required", ErrInvalidConfig))
	}
	if c.MaxNodes <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_nodes must be positive, got %d", ErrInvalidConfig, c.MaxNodes))
	}
	if _, err := ParseAlgorithm(string(c.Algorithm)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
