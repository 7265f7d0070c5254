package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/pathfinder/internal/app"
	"github.com/specialistvlad/pathfinder/internal/config"
	"github.com/specialistvlad/pathfinder/internal/protocol"
	"github.com/specialistvlad/pathfinder/internal/transport"
)

// DotEnvFile is loaded from the working directory before the profile is read.
const DotEnvFile = ".env"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	ctx := context.Background()
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pathfinder", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Pathfinder - follows a live link-graph search and reports the path it finds.

Usage:
  pathfinder [options] [PROFILE]

Arguments:
  PROFILE
    Path to an .hcl profile or a directory of profiles. Same as -config.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL profile file or directory.")
	startFlag := flagSet.String("start", "", "URL of the page the search starts from.")
	targetFlag := flagSet.String("target", "", "URL of the page the search looks for.")
	maxNodesFlag := flagSet.Int("max-nodes", protocol.DefaultMaxNodes, "Maximum number of pages the service may explore.")
	algorithmFlag := flagSet.String("algorithm", "", "Search algorithm: BFS, DFS, IDS, UCS or GREEDY. Empty lets the service decide.")
	endpointFlag := flagSet.String("endpoint", app.DefaultEndpoint, "Search service endpoint.")
	transportFlag := flagSet.String("transport", transport.KindWebSocket, "Transport: 'websocket' or 'socketio'.")
	insecureFlag := flagSet.Bool("insecure-skip-verify", false, "Skip TLS certificate verification.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	statePortFlag := flagSet.Int("state-port", 0, "Port for the HTTP state server. 0 is disabled.")
	outputFlag := flagSet.String("output", app.OutputText, "Report format. Options: 'text', 'json', 'yaml', 'none'.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Give up after this long, e.g. '2m'. 0 waits for the service.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	profilePath := *configFlag
	if profilePath == "" && flagSet.NArg() > 0 {
		profilePath = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, usageError("unexpected arguments: %v", flagSet.Args()[1:])
	}

	set := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if profilePath == "" && !set["start"] && !set["target"] {
		slog.Debug("No profile or search given, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	if _, err := config.LoadDotEnv(ctx, DotEnvFile); err != nil {
		return nil, false, &ExitError{Code: 1, Message: err.Error()}
	}

	cfg := app.Config{
		Endpoint:  *endpointFlag,
		Transport: *transportFlag,
		Search:    protocol.SearchConfig{MaxNodes: *maxNodesFlag},
	}
	algorithm := *algorithmFlag

	if profilePath != "" {
		profile, err := config.Load(ctx, profilePath)
		if err != nil {
			return nil, false, usageError("invalid profile: %v", err)
		}
		applyProfile(&cfg, &algorithm, profile)
		slog.Debug("Profile applied.", "path", profilePath)
	}

	// Explicit flags win over the profile.
	if set["endpoint"] {
		cfg.Endpoint = *endpointFlag
	}
	if set["transport"] {
		cfg.Transport = *transportFlag
	}
	if set["insecure-skip-verify"] {
		cfg.InsecureSkipVerify = *insecureFlag
	}
	if set["start"] {
		cfg.Search.StartURL = *startFlag
	}
	if set["target"] {
		cfg.Search.TargetURL = *targetFlag
	}
	if set["max-nodes"] {
		cfg.Search.MaxNodes = *maxNodesFlag
	}
	if set["algorithm"] {
		algorithm = *algorithmFlag
	}

	alg, err := protocol.ParseAlgorithm(algorithm)
	if err != nil {
		return nil, false, usageError("invalid algorithm: %v", err)
	}
	cfg.Search.Algorithm = alg
	cfg.Transport = strings.ToLower(cfg.Transport)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	slog.Debug("CLI parameter validation complete.")

	cfg.LogFormat = logFormat
	cfg.LogLevel = logLevel
	cfg.StatePort = *statePortFlag
	cfg.Output = strings.ToLower(*outputFlag)
	cfg.Timeout = *timeoutFlag

	appConfig, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, usageError("%v", err)
	}

	slog.Debug("CLI parser finished successfully.", "endpoint", appConfig.Endpoint, "transport", appConfig.Transport, "timeout", appConfig.Timeout.String())
	return appConfig, false, nil
}

func applyProfile(cfg *app.Config, algorithm *string, p *config.Profile) {
	if p.Service.Endpoint != nil {
		cfg.Endpoint = *p.Service.Endpoint
	}
	if p.Service.Transport != nil {
		cfg.Transport = *p.Service.Transport
	}
	if p.Service.InsecureSkipVerify != nil {
		cfg.InsecureSkipVerify = *p.Service.InsecureSkipVerify
	}
	if p.Search.StartURL != nil {
		cfg.Search.StartURL = *p.Search.StartURL
	}
	if p.Search.TargetURL != nil {
		cfg.Search.TargetURL = *p.Search.TargetURL
	}
	if p.Search.MaxNodes != nil {
		cfg.Search.MaxNodes = *p.Search.MaxNodes
	}
	if p.Search.Algorithm != nil {
		*algorithm = *p.Search.Algorithm
	}
}
