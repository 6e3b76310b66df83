package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/wardje/tubevault/internal/bridge"
	"github.com/wardje/tubevault/internal/models"
	"github.com/wardje/tubevault/internal/shared"
)

// SettingsShow prints the persisted settings.
func (r *Runner) SettingsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.wire(); err != nil {
		return err
	}

	resp := r.bridge.Handle(ctx, bridge.Request{Action: bridge.ActionGetSettings})
	if !resp.Success {
		return fmt.Errorf("failed to load settings: %s", resp.Error)
	}

	return r.writePlain("sync frequency: %s\n", resp.Settings.SyncFrequency)
}

// SettingsFrequency persists a new sync frequency and reschedules the
// recurring sync.
func (r *Runner) SettingsFrequency(ctx context.Context, cmd *cli.Command) error {
	value := cmd.StringArg("value")
	if value == "" {
		return fmt.Errorf("%w: frequency (daily or weekly)", shared.ErrMissingArgument)
	}

	if err := r.wire(); err != nil {
		return err
	}

	resp := r.bridge.Handle(ctx, bridge.Request{
		Action:   bridge.ActionSaveSettings,
		Settings: &models.Settings{SyncFrequency: models.SyncFrequency(value)},
	})
	if !resp.Success {
		return fmt.Errorf("failed to save settings: %s", resp.Error)
	}

	return r.writePlain("✓ Sync frequency set to %s\n", resp.Settings.SyncFrequency)
}
