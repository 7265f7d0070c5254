package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/specialistvlad/pathfinder/internal/ctxlog"
)

// healthHandler answers liveness probes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// stateHandler serves the latest published ViewState.
func (a *App) stateHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("State endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	a.writeJSON(w, a.controller.State())
}

// treeHandler serves only the render tree, which is {} when there is no data.
func (a *App) treeHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Tree endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	a.writeJSON(w, a.controller.State().Tree)
}

func (a *App) writeJSON(w http.ResponseWriter, v any) {
	body, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		a.logger.Error("Failed to encode state.", "error", err)
		http.Error(w, "failed to encode state", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (a *App) stateMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /state", a.stateHandler)
	mux.HandleFunc("GET /tree", a.treeHandler)
	return mux
}

func (a *App) newStateServer() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.StatePort),
		Handler:           a.stateMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// serveState runs the state server until it is shut down. It returns nil
// after a graceful shutdown.
func (a *App) serveState(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("State server starting.", "address", fmt.Sprintf("http://localhost%s/state", a.httpServer.Addr))
	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("state server failed: %w", err)
	}
	return nil
}

func (a *App) closeStateServer(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if a.httpServer == nil {
		logger.Debug("State server was not running.")
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Info("Shutting down state server...")
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("State server shutdown failed.", "error", err)
		return err
	}
	logger.Debug("State server shut down gracefully.")
	return nil
}
