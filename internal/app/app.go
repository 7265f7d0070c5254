package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/pathfinder/internal/ctxlog"
	"github.com/specialistvlad/pathfinder/internal/session"
	"github.com/specialistvlad/pathfinder/internal/transport"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	controller *session.Controller
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Reports are written to
// outW and logs to logW. The dialer decides how the service is reached; main
// builds it with transport.New.
func NewApp(outW, logW io.Writer, cfg *Config, dialer transport.Dialer) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		controller: session.New(dialer, cfg.Endpoint),
	}
}

// Controller returns the application's session controller. This is primarily for testing.
func (a *App) Controller() *session.Controller {
	return a.controller
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
