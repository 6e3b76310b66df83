package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/wardje/tubevault/internal/shared"
	"github.com/wardje/tubevault/internal/ui"
)

// TUI launches the interactive playlist browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.wire(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tubevault-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	if err := ui.Run(ctx, r.bridge); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
