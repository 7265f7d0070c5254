package app

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/specialistvlad/pathfinder/internal/protocol"
	"github.com/specialistvlad/pathfinder/internal/transport"
)

// DefaultEndpoint is the service endpoint used when none is configured.
const DefaultEndpoint = "ws://127.0.0.1:8000/ws"

// Report formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
	OutputNone = "none"
)

// Outputs lists the supported report formats.
var Outputs = []string{OutputText, OutputJSON, OutputYAML, OutputNone}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Endpoint           string
	Transport          string
	InsecureSkipVerify bool
	Search             protocol.SearchConfig

	LogFormat string
	LogLevel  string
	StatePort int // 0 disables the state server
	Output    string
	Timeout   time.Duration // 0 means no bound
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error
	if cfg.Endpoint == "" {
		errs = append(errs, errors.New("endpoint is a required configuration field and cannot be empty"))
	}
	if cfg.Transport != "" && !slices.Contains(transport.Kinds, cfg.Transport) {
		errs = append(errs, fmt.Errorf("%w %q: must be one of %v", transport.ErrUnknownKind, cfg.Transport, transport.Kinds))
	}
	if err := cfg.Search.Validate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Output != "" && !slices.Contains(Outputs, cfg.Output) {
		errs = append(errs, fmt.Errorf("invalid output %q: must be one of %v", cfg.Output, Outputs))
	}
	if cfg.StatePort < 0 || cfg.StatePort > 65535 {
		errs = append(errs, fmt.Errorf("invalid state port %d", cfg.StatePort))
	}
	if cfg.Timeout < 0 {
		errs = append(errs, fmt.Errorf("invalid timeout %s: must not be negative", cfg.Timeout))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if cfg.Transport == "" {
		cfg.Transport = transport.KindWebSocket
	}
	if cfg.Output == "" {
		cfg.Output = OutputText
	}
	return &cfg, nil
}
