package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/pathfinder/internal/ctxlog"
	"github.com/specialistvlad/pathfinder/internal/session"
	"golang.org/x/sync/errgroup"
)

// Run executes one search. It returns once the session has closed, the
// configured timeout has elapsed or ctx is done, and then writes the report
// of the last observed state. A run cut short by the timeout or by ctx is not
// an error.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	closed := make(chan struct{})
	var closeOnce sync.Once
	unsubscribe := a.controller.Subscribe(a.progress(func() {
		closeOnce.Do(func() { close(closed) })
	}))
	defer unsubscribe()

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	if a.config.StatePort > 0 {
		a.httpServer = a.newStateServer()
		g.Go(func() error { return a.serveState(gctx) })
		g.Go(func() error {
			<-gctx.Done()
			return a.closeStateServer(gctx)
		})
	} else {
		logger.Debug("State server not started: disabled.")
	}

	var final session.ViewState
	g.Go(func() error {
		defer stop()
		logger.Info("Starting search.", "endpoint", a.controller.Endpoint(), "transport", a.config.Transport)
		// The run ends the session itself with Reset, after taking the
		// snapshot it reports.
		if _, err := a.controller.Start(context.WithoutCancel(gctx), a.config.Search); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		select {
		case <-closed:
			final = a.controller.State()
			logger.Info("Search finished.", "status", final.Status, "nodes", len(final.Nodes), "path_length", len(final.WinningPath))
		case <-gctx.Done():
			final = a.controller.State()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logger.Warn("Search timed out.", "timeout", a.config.Timeout, "nodes", len(final.Nodes))
			} else {
				logger.Info("Search interrupted.", "nodes", len(final.Nodes))
			}
			a.controller.Reset(ctx)
		}
		return nil
	})

	err := g.Wait()
	a.controller.Wait()
	if err != nil {
		return err
	}

	if err := a.writeReport(final); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Debug("App.Run method finished.")
	return nil
}

// progress returns a subscriber that logs status changes and prints them in
// text mode. onClosed fires when the controller reaches Closed. The
// subscriber runs under the controller lock, so it never calls back into the
// controller.
func (a *App) progress(onClosed func()) func(session.ViewState) {
	var lastStatus string
	return func(v session.ViewState) {
		if v.Phase != session.PhaseIdle && v.Status != lastStatus {
			lastStatus = v.Status
			a.logger.Debug("Status changed.", "phase", v.Phase, "status", v.Status, "epoch", v.Epoch)
			if a.config.Output == OutputText {
				fmt.Fprintf(a.outW, "[%s] %s\n", v.Phase, v.Status)
			}
		}
		if v.Phase == session.PhaseClosed {
			onClosed()
		}
	}
}
