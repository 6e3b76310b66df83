package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/wardje/tubevault/internal/bridge"
)

// AuthLogin runs the interactive consent flow and stores the credential.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.wire(); err != nil {
		return err
	}

	if r.manager.IsSignedIn(ctx) {
		return r.writePlain("Already signed in. Run 'tubevault auth logout' first to switch accounts.\n")
	}

	r.logger.Info("starting sign-in flow")
	r.writePlain("Opening your browser for YouTube consent...\n")

	if _, err := r.manager.GetToken(ctx, true); err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}

	return r.writePlain("✓ Signed in\n")
}

// AuthLogout revokes the stored credential.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.wire(); err != nil {
		return err
	}

	resp := r.bridge.Handle(ctx, bridge.Request{Action: bridge.ActionSignOut})
	if !resp.Success {
		return fmt.Errorf("sign-out failed: %s", resp.Error)
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports whether a usable session exists.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.wire(); err != nil {
		return err
	}

	if r.manager.IsSignedIn(ctx) {
		return r.writePlain("✓ Signed in\n")
	}
	return r.writePlain("✗ Not signed in. Run 'tubevault auth login'.\n")
}
