package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wardje/tubevault/internal/bridge"
)

// playlistsMsg delivers a refreshed playlist listing.
type playlistsMsg struct {
	response bridge.Response
}

// actionMsg delivers the outcome of a toggle or sync action.
type actionMsg struct {
	action   string
	response bridge.Response
}

// dispatch wraps one bridge request as a [tea.Cmd].
func dispatch(ctx context.Context, h *bridge.Handler, req bridge.Request) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{action: req.Action, response: h.Handle(ctx, req)}
	}
}

// loadPlaylists fetches the persisted playlist listing.
func loadPlaylists(ctx context.Context, h *bridge.Handler) tea.Cmd {
	return func() tea.Msg {
		return playlistsMsg{response: h.Handle(ctx, bridge.Request{Action: bridge.ActionGetPersistedPlaylists})}
	}
}

// refreshRemote pulls the remote listing, then reloads the vault view.
func refreshRemote(ctx context.Context, h *bridge.Handler) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{
			action:   bridge.ActionFetchRemotePlaylists,
			response: h.Handle(ctx, bridge.Request{Action: bridge.ActionFetchRemotePlaylists}),
		}
	}
}
