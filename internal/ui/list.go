package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/wardje/tubevault/internal/models"
)

var _ list.Item = playlistItem{}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }

func (i playlistItem) Title() string {
	marker := "○"
	if i.playlist.Monitored {
		marker = "●"
	}
	return fmt.Sprintf("%s %s", marker, i.playlist.Title)
}

func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d items", i.playlist.ItemCount)
	if i.playlist.LastSyncedAt != nil {
		desc = fmt.Sprintf("%s • synced %s", desc, i.playlist.LastSyncedAt.Format("2006-01-02 15:04"))
	} else {
		desc = fmt.Sprintf("%s • never synced", desc)
	}
	return desc
}
