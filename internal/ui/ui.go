// Package ui provides the interactive playlist browser: a thin layer of
// terminal glue over the bridge message contract.
package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/wardje/tubevault/internal/bridge"
	"github.com/wardje/tubevault/internal/models"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	bridge *bridge.Handler

	width  int
	height int

	playlists list.Model
	status    string
	errText   string
	busy      bool

	help help.Model
	keys keyMap
}

// NewModel creates the TUI model over the given bridge handler.
func NewModel(ctx context.Context, b *bridge.Handler) Model {
	delegate := list.NewDefaultDelegate()
	playlists := list.New([]list.Item{}, delegate, 0, 0)
	playlists.Title = "tubevault"
	playlists.SetShowHelp(false)

	return Model{
		ctx:       ctx,
		bridge:    b,
		playlists: playlists,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Run starts the TUI and blocks until it exits.
func Run(ctx context.Context, b *bridge.Handler) error {
	_, err := tea.NewProgram(NewModel(ctx, b), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return loadPlaylists(m.ctx, m.bridge)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlists.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.toggle):
			if m.busy {
				return m, nil
			}
			selected, ok := m.selected()
			if !ok {
				return m, nil
			}
			monitored := !selected.Monitored
			m.busy = true
			m.status = "Updating monitor flag..."
			return m, dispatch(m.ctx, m.bridge, bridge.Request{
				Action:     bridge.ActionToggleMonitor,
				PlaylistID: selected.ID,
				Monitored:  &monitored,
			})

		case key.Matches(msg, m.keys.sync):
			if m.busy {
				return m, nil
			}
			selected, ok := m.selected()
			if !ok {
				return m, nil
			}
			m.busy = true
			m.status = fmt.Sprintf("Syncing %s...", selected.Title)
			return m, dispatch(m.ctx, m.bridge, bridge.Request{
				Action:     bridge.ActionSyncOnePlaylist,
				PlaylistID: selected.ID,
			})

		case key.Matches(msg, m.keys.syncAll):
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "Syncing all monitored playlists..."
			return m, dispatch(m.ctx, m.bridge, bridge.Request{Action: bridge.ActionSyncAll})

		case key.Matches(msg, m.keys.refresh):
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "Fetching remote playlists..."
			return m, refreshRemote(m.ctx, m.bridge)
		}

	case playlistsMsg:
		m.busy = false
		if !msg.response.Success {
			m.errText = msg.response.Error
			return m, nil
		}
		m.errText = ""
		items := make([]list.Item, len(msg.response.Playlists))
		for i, p := range msg.response.Playlists {
			items[i] = playlistItem{playlist: p}
		}
		return m, m.playlists.SetItems(items)

	case actionMsg:
		m.busy = false
		if !msg.response.Success {
			m.errText = msg.response.Error
			m.status = ""
			return m, nil
		}
		m.errText = ""
		m.status = statusFor(msg)
		return m, loadPlaylists(m.ctx, m.bridge)
	}

	var cmd tea.Cmd
	m.playlists, cmd = m.playlists.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	view := m.playlists.View() + "\n"

	if m.errText != "" {
		view += errorStyle.Render("error: "+m.errText) + "\n"
	} else if m.status != "" {
		view += statusStyle.Render(m.status) + "\n"
	}

	return view + m.help.View(m.keys)
}

func (m Model) selected() (models.Playlist, bool) {
	item, ok := m.playlists.SelectedItem().(playlistItem)
	if !ok {
		return models.Playlist{}, false
	}
	return item.playlist, true
}

func statusFor(msg actionMsg) string {
	switch msg.action {
	case bridge.ActionSyncOnePlaylist:
		if r := msg.response.Result; r != nil {
			return fmt.Sprintf("Synced %s: %d items, %d unavailable", r.Title, r.Items, r.Unavailable)
		}
	case bridge.ActionSyncAll:
		if r := msg.response.Run; r != nil {
			return fmt.Sprintf("Synced %d playlists, %d unavailable, %d errors", r.Synced, r.Unavailable, len(r.Errors))
		}
	case bridge.ActionFetchRemotePlaylists:
		return fmt.Sprintf("Fetched %d remote playlists", len(msg.response.Playlists))
	case bridge.ActionToggleMonitor:
		return "Monitor flag updated"
	}
	return ""
}
