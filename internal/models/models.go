package models

import (
	"fmt"
	"time"
)

// Item represents a single playlist entry (video) with remote identity and
// descriptive metadata.
//
// The Original* fields hold the last-known-good metadata captured at the
// moment the item first transitioned to unavailable. They are never set for
// an available item.
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ChannelName  string    `json:"channelName"`
	ChannelID    string    `json:"channelId"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Description  string    `json:"description"`
	Position     int       `json:"position"`
	AddedAt      time.Time `json:"addedAt"`

	// Unavailable is derived at fetch time from the record alone.
	Unavailable bool `json:"unavailable"`

	OriginalTitle        string `json:"originalTitle,omitempty"`
	OriginalChannelName  string `json:"originalChannelName,omitempty"`
	OriginalThumbnailURL string `json:"originalThumbnailUrl,omitempty"`
}

// HasOriginal reports whether preserved-original metadata has been captured
// for this item.
func (i Item) HasOriginal() bool {
	return i.OriginalTitle != "" || i.OriginalChannelName != "" || i.OriginalThumbnailURL != ""
}

// ClearOriginal drops any preserved-original metadata (the item became
// available again).
func (i *Item) ClearOriginal() {
	i.OriginalTitle = ""
	i.OriginalChannelName = ""
	i.OriginalThumbnailURL = ""
}

// Playlist represents a remote playlist and, when loaded from the vault, its
// ordered item snapshot.
type Playlist struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	ItemCount    int        `json:"itemCount"`
	Monitored    bool       `json:"monitored"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
	Items        []Item     `json:"items,omitempty"`
}

// Validate checks the playlist carries the fields every remote record has.
func (p *Playlist) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("playlist id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("playlist title is required")
	}
	return nil
}

// Credential is the durable OAuth artifact enabling API calls.
//
// Expiry is stored already safety-adjusted (declared lifetime minus the
// refresh margin), so `now < Expiry` is the only check readers need.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry"`
}

// Valid reports whether the access token can still be handed out at t.
func (c *Credential) Valid(t time.Time) bool {
	return c.AccessToken != "" && t.Before(c.Expiry)
}

// SyncFrequency enumerates the supported recurring sync periods.
type SyncFrequency string

const (
	SyncDaily  SyncFrequency = "daily"
	SyncWeekly SyncFrequency = "weekly"
)

// ParseSyncFrequency validates a frequency string from config or settings.
func ParseSyncFrequency(s string) (SyncFrequency, error) {
	switch SyncFrequency(s) {
	case SyncDaily, SyncWeekly:
		return SyncFrequency(s), nil
	default:
		return "", fmt.Errorf("unsupported sync frequency %q", s)
	}
}

// Period returns the schedule period for the frequency.
func (f SyncFrequency) Period() time.Duration {
	if f == SyncWeekly {
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}

// Settings holds the user-controlled configuration persisted in the store.
type Settings struct {
	SyncFrequency SyncFrequency `json:"syncFrequency"`
}

// DefaultSettings returns the settings applied before the user saves any.
func DefaultSettings() Settings {
	return Settings{SyncFrequency: SyncDaily}
}
