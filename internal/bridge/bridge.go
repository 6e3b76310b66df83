// Package bridge exposes the core to UI clients through a request/response
// message contract.
//
// Every verb returns a response with a success flag; no failure ever crosses
// this boundary as a Go error. UI layers (CLI, TUI, HTTP clients) stay dumb
// glue over these messages.
package bridge

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/wardje/tubevault/internal/models"
	"github.com/wardje/tubevault/internal/shared"
	"github.com/wardje/tubevault/internal/tasks"
	"golang.org/x/oauth2"
)

// Supported actions.
const (
	ActionGetAuthStatus         = "get-auth-status"
	ActionSignIn                = "sign-in"
	ActionSignOut               = "sign-out"
	ActionFetchRemotePlaylists  = "fetch-remote-playlists"
	ActionSyncOnePlaylist       = "sync-one-playlist"
	ActionSyncAll               = "sync-all"
	ActionGetPersistedPlaylists = "get-persisted-playlists"
	ActionGetMonitoredPlaylists = "get-monitored-playlists"
	ActionToggleMonitor         = "toggle-monitor"
	ActionGetSettings           = "get-settings"
	ActionSaveSettings          = "save-settings"
)

const settingsKey = "settings"

// Request is one message from a UI client.
type Request struct {
	Action     string           `json:"action"`
	PlaylistID string           `json:"playlistId,omitempty"`
	Monitored  *bool            `json:"monitored,omitempty"`
	Settings   *models.Settings `json:"settings,omitempty"`
}

// Response is the uniform reply shape. Exactly one payload field is set per
// action; Error is populated only when Success is false.
type Response struct {
	Success   bool                      `json:"success"`
	Error     string                    `json:"error,omitempty"`
	SignedIn  *bool                     `json:"signedIn,omitempty"`
	Playlists []models.Playlist         `json:"playlists,omitempty"`
	Playlist  *models.Playlist          `json:"playlist,omitempty"`
	Result    *tasks.PlaylistSyncResult `json:"result,omitempty"`
	Run       *tasks.SyncRunResult      `json:"run,omitempty"`
	Settings  *models.Settings          `json:"settings,omitempty"`
}

// AuthService is the token-manager surface the bridge drives.
type AuthService interface {
	GetToken(ctx context.Context, interactive bool) (*oauth2.Token, error)
	IsSignedIn(ctx context.Context) bool
	SignOut(ctx context.Context) error
}

// RemoteService lists the user's playlists on the remote.
type RemoteService interface {
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)
}

// SyncService runs sync cycles.
type SyncService interface {
	SyncPlaylist(ctx context.Context, progress chan<- tasks.ProgressUpdate, playlistID string) (*tasks.PlaylistSyncResult, error)
	SyncAll(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.SyncRunResult, error)
}

// PlaylistVault is the persisted-playlist surface the bridge reads and flags.
type PlaylistVault interface {
	List(monitoredOnly bool) ([]*models.Playlist, error)
	Get(id string) (*models.Playlist, error)
	SetMonitored(id string, monitored bool) error
	Upsert(playlist *models.Playlist) error
}

// KV is the slice of the key-value store holding settings.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Rescheduler swaps the recurring sync schedule when settings change.
type Rescheduler interface {
	Reschedule(freq models.SyncFrequency)
}

// Handler dispatches requests to the core and translates every failure into
// the uniform response shape.
type Handler struct {
	auth      AuthService
	remote    RemoteService
	sync      SyncService
	vault     PlaylistVault
	store     KV
	scheduler Rescheduler
	logger    *log.Logger
}

// HandlerOpts contains construction options for [NewHandler].
type HandlerOpts struct {
	Auth      AuthService
	Remote    RemoteService
	Sync      SyncService
	Vault     PlaylistVault
	Store     KV
	Scheduler Rescheduler
	Logger    *log.Logger
}

// NewHandler creates a Handler with the provided collaborators.
func NewHandler(opts HandlerOpts) *Handler {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Handler{
		auth:      opts.Auth,
		remote:    opts.Remote,
		sync:      opts.Sync,
		vault:     opts.Vault,
		store:     opts.Store,
		scheduler: opts.Scheduler,
		logger:    opts.Logger,
	}
}

// Handle processes one request. It never returns a Go error; failures come
// back as {success: false, error: message}.
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	switch req.Action {
	case ActionGetAuthStatus:
		signedIn := h.auth.IsSignedIn(ctx)
		return Response{Success: true, SignedIn: &signedIn}

	case ActionSignIn:
		if _, err := h.auth.GetToken(ctx, true); err != nil {
			return failure(err)
		}
		// A grant without a refresh token leaves no durable credential, so
		// report the stored state rather than assuming success implies it.
		signedIn := h.auth.IsSignedIn(ctx)
		return Response{Success: true, SignedIn: &signedIn}

	case ActionSignOut:
		if err := h.auth.SignOut(ctx); err != nil {
			return failure(err)
		}
		signedIn := false
		return Response{Success: true, SignedIn: &signedIn}

	case ActionFetchRemotePlaylists:
		playlists, err := h.remote.GetPlaylists(ctx)
		if err != nil {
			return failure(err)
		}
		// Cache the listing so UI surfaces can browse offline. Upsert leaves
		// the monitored flag and item snapshots alone.
		for i := range playlists {
			if err := h.vault.Upsert(&playlists[i]); err != nil {
				h.logger.Warn("failed to cache playlist", "playlist", playlists[i].ID, "err", err)
			}
		}
		return Response{Success: true, Playlists: playlists}

	case ActionSyncOnePlaylist:
		if req.PlaylistID == "" {
			return failure(shared.ErrMissingArgument)
		}
		result, err := h.sync.SyncPlaylist(ctx, nil, req.PlaylistID)
		if err != nil {
			return failure(err)
		}
		return Response{Success: true, Result: result}

	case ActionSyncAll:
		run, err := h.sync.SyncAll(ctx, nil)
		if err != nil {
			return failure(err)
		}
		return Response{Success: true, Run: run}

	case ActionGetPersistedPlaylists:
		return h.listPlaylists(false)

	case ActionGetMonitoredPlaylists:
		return h.listPlaylists(true)

	case ActionToggleMonitor:
		return h.toggleMonitor(ctx, req)

	case ActionGetSettings:
		settings, err := h.loadSettings()
		if err != nil {
			return failure(err)
		}
		return Response{Success: true, Settings: &settings}

	case ActionSaveSettings:
		return h.saveSettings(req)

	default:
		return Response{Success: false, Error: "unknown action: " + req.Action}
	}
}

func (h *Handler) listPlaylists(monitoredOnly bool) Response {
	stored, err := h.vault.List(monitoredOnly)
	if err != nil {
		return failure(err)
	}

	playlists := make([]models.Playlist, len(stored))
	for i, p := range stored {
		playlists[i] = *p
	}
	return Response{Success: true, Playlists: playlists}
}

// toggleMonitor flags a playlist for monitoring. A playlist not yet in the
// vault is pulled from the remote first, so users can monitor straight from
// a remote listing.
func (h *Handler) toggleMonitor(ctx context.Context, req Request) Response {
	if req.PlaylistID == "" || req.Monitored == nil {
		return failure(shared.ErrMissingArgument)
	}

	err := h.vault.SetMonitored(req.PlaylistID, *req.Monitored)
	if err == nil {
		return h.playlistResponse(req.PlaylistID)
	}

	if !*req.Monitored {
		return failure(err)
	}

	remote, fetchErr := h.remote.GetPlaylist(ctx, req.PlaylistID)
	if fetchErr != nil {
		return failure(fetchErr)
	}

	remote.Monitored = true
	if err := h.vault.Upsert(remote); err != nil {
		return failure(err)
	}
	return Response{Success: true, Playlist: remote}
}

func (h *Handler) playlistResponse(id string) Response {
	playlist, err := h.vault.Get(id)
	if err != nil {
		return failure(err)
	}
	return Response{Success: true, Playlist: playlist}
}

func (h *Handler) loadSettings() (models.Settings, error) {
	raw, ok, err := h.store.Get(settingsKey)
	if err != nil {
		return models.Settings{}, err
	}
	if !ok {
		return models.DefaultSettings(), nil
	}

	settings, err := decodeSettings(raw)
	if err != nil {
		// Schemaless store; a corrupt value falls back to defaults.
		h.logger.Warn("discarding malformed settings", "err", err)
		return models.DefaultSettings(), nil
	}
	return settings, nil
}

func (h *Handler) saveSettings(req Request) Response {
	if req.Settings == nil {
		return failure(shared.ErrMissingArgument)
	}

	freq, err := models.ParseSyncFrequency(string(req.Settings.SyncFrequency))
	if err != nil {
		return failure(errors.Join(shared.ErrInvalidInput, err))
	}

	settings := models.Settings{SyncFrequency: freq}
	raw, err := encodeSettings(settings)
	if err != nil {
		return failure(err)
	}
	if err := h.store.Set(settingsKey, raw); err != nil {
		return failure(err)
	}

	if h.scheduler != nil {
		h.scheduler.Reschedule(freq)
	}

	return Response{Success: true, Settings: &settings}
}

func failure(err error) Response {
	return Response{Success: false, Error: err.Error()}
}
