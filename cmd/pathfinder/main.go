package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/pathfinder/internal/app"
	"github.com/specialistvlad/pathfinder/internal/cli"
	"github.com/specialistvlad/pathfinder/internal/transport"
)

// main is the entrypoint for the pathfinder application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		stop()
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	dialer, err := transport.New(appConfig.Transport, transport.Options{
		InsecureSkipVerify: appConfig.InsecureSkipVerify,
	})
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	pathfinderApp := app.NewApp(outW, logW, appConfig, dialer)
	return pathfinderApp.Run(ctx)
}
