package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wardje/tubevault/internal/bridge"
	"github.com/wardje/tubevault/internal/models"
	"github.com/wardje/tubevault/internal/server"
	"github.com/wardje/tubevault/internal/tasks"
)

// SyncRun syncs all monitored playlists, or a single one when --id is given,
// streaming progress to the terminal.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.wire(); err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.renderProgress(update)
		}
	}()

	id := cmd.String("id")
	if id != "" {
		result, err := r.engine.SyncPlaylist(ctx, progress, id)
		close(progress)
		wg.Wait()
		if err != nil {
			return err
		}
		return r.writePlain("✓ Synced %s: %d items, %d unavailable\n", result.Title, result.Items, result.Unavailable)
	}

	run, err := r.engine.SyncAll(ctx, progress)
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	for _, syncErr := range run.Errors {
		r.writePlain("✗ %s: %v\n", syncErr.PlaylistID, syncErr.Err)
	}
	r.writePlain("✓ Synced %d playlists, %d unavailable items", run.Synced, run.Unavailable)
	if len(run.Errors) > 0 {
		r.writePlain(", %d failed", len(run.Errors))
	}
	return r.writePlain("\n")
}

func (r *Runner) renderProgress(update tasks.ProgressUpdate) {
	label := strings.ReplaceAll(update.Phase.String(), "_", " ")
	if update.Total > 1 {
		r.writePlain("[%d/%d] %s: %s\n", update.Step, update.Total, label, update.Message)
		return
	}
	r.writePlain("%s: %s\n", label, update.Message)
}

// Watch runs the recurring schedule in the foreground until interrupted.
//
// The schedule period comes from persisted settings, falling back to the
// config file's frequency when none were saved.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	if err := r.wire(); err != nil {
		return err
	}

	freq := r.resolveFrequency(ctx)
	r.scheduler.Reschedule(freq)
	defer r.scheduler.Stop()

	r.logger.Info("watching", "frequency", freq, "period", freq.Period())
	r.writePlain("Watching monitored playlists (%s). Press Ctrl+C to stop.\n", freq)

	waitCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-waitCtx.Done()

	r.writePlain("\nStopping.\n")
	return nil
}

// Serve exposes the message contract over HTTP until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.wire(); err != nil {
		return err
	}

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(bridge.NewMessageHandler(r.bridge))

	srv := &http.Server{Addr: r.serverAddr(), Handler: router}

	waitCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		r.logger.Info("serving message API", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	r.writePlain("Serving on http://%s/api/message\n", srv.Addr)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-waitCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// resolveFrequency returns the sync frequency to schedule with: explicitly
// saved settings win, then the config file, then the default.
func (r *Runner) resolveFrequency(ctx context.Context) models.SyncFrequency {
	if _, ok, err := r.store.Get("settings"); err == nil && ok {
		resp := r.bridge.Handle(ctx, bridge.Request{Action: bridge.ActionGetSettings})
		if resp.Success && resp.Settings != nil {
			return resp.Settings.SyncFrequency
		}
	}

	if freq, err := models.ParseSyncFrequency(r.config.Sync.Frequency); err == nil {
		return freq
	}
	return models.DefaultSettings().SyncFrequency
}
