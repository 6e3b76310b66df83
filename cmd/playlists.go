package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/wardje/tubevault/internal/bridge"
	"github.com/wardje/tubevault/internal/models"
	"github.com/wardje/tubevault/internal/shared"
)

// PlaylistsList prints playlists from the vault, or from the remote when
// --remote is set.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.wire(); err != nil {
		return err
	}

	action := bridge.ActionGetPersistedPlaylists
	if cmd.Bool("remote") {
		action = bridge.ActionFetchRemotePlaylists
	} else if cmd.Bool("monitored") {
		action = bridge.ActionGetMonitoredPlaylists
	}

	resp := r.bridge.Handle(ctx, bridge.Request{Action: action})
	if !resp.Success {
		return fmt.Errorf("failed to list playlists: %s", resp.Error)
	}

	if cmd.Bool("json") {
		return r.writeJSON(resp.Playlists, cmd.Bool("pretty"))
	}

	if len(resp.Playlists) == 0 {
		if cmd.Bool("remote") {
			return r.writePlain("No playlists on the remote account.\n")
		}
		return r.writePlain("Vault is empty. Run 'tubevault playlists list --remote' to fetch your playlists.\n")
	}

	for _, p := range resp.Playlists {
		marker := "○"
		if p.Monitored {
			marker = "●"
		}
		r.writePlain("%s %s  %s (%d items)\n", marker, p.ID, p.Title, p.ItemCount)
	}
	r.writePlain("\n%d playlists. ● monitored, ○ not monitored\n", len(resp.Playlists))

	return nil
}

// PlaylistsShow prints one vaulted playlist with its item snapshot,
// flagging unavailable items and their preserved metadata.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	if err := r.wire(); err != nil {
		return err
	}

	playlist, err := r.playlists.Get(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", playlist.Title)
	if playlist.Description != "" {
		r.writePlain("%s\n", playlist.Description)
	}
	r.writePlain("id: %s  items: %d  monitored: %v\n", playlist.ID, len(playlist.Items), playlist.Monitored)
	if playlist.LastSyncedAt != nil {
		r.writePlain("last synced: %s\n", playlist.LastSyncedAt.Format("2006-01-02 15:04"))
	}

	for _, item := range playlist.Items {
		r.writePlain("\n%3d. %s", item.Position+1, itemTitle(item))
		if item.Unavailable {
			r.writePlain("  [unavailable]")
		}
		r.writePlain("\n")
		if channel := itemChannel(item); channel != "" {
			r.writePlain("     %s\n", channel)
		}
	}

	return nil
}

// PlaylistsMonitor flags a playlist for monitoring.
func (r *Runner) PlaylistsMonitor(ctx context.Context, cmd *cli.Command) error {
	return r.setMonitored(ctx, cmd, true)
}

// PlaylistsUnmonitor removes a playlist from monitoring.
func (r *Runner) PlaylistsUnmonitor(ctx context.Context, cmd *cli.Command) error {
	return r.setMonitored(ctx, cmd, false)
}

func (r *Runner) setMonitored(ctx context.Context, cmd *cli.Command, monitored bool) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	if err := r.wire(); err != nil {
		return err
	}

	resp := r.bridge.Handle(ctx, bridge.Request{
		Action:     bridge.ActionToggleMonitor,
		PlaylistID: id,
		Monitored:  &monitored,
	})
	if !resp.Success {
		return fmt.Errorf("failed to update monitor flag: %s", resp.Error)
	}

	title := id
	if resp.Playlist != nil {
		title = resp.Playlist.Title
	}
	if monitored {
		return r.writePlain("✓ Monitoring %s\n", title)
	}
	return r.writePlain("✓ Stopped monitoring %s\n", title)
}

// itemTitle prefers the live title; an unavailable item falls back to its
// preserved original.
func itemTitle(item models.Item) string {
	if item.Unavailable && item.OriginalTitle != "" {
		return item.OriginalTitle
	}
	return item.Title
}

func itemChannel(item models.Item) string {
	if item.Unavailable && item.OriginalChannelName != "" {
		return item.OriginalChannelName
	}
	return item.ChannelName
}
