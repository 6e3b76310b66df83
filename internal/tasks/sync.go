package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wardje/tubevault/internal/models"
	"github.com/wardje/tubevault/internal/reconcile"
	"github.com/wardje/tubevault/internal/shared"
	"golang.org/x/time/rate"
)

// AuthChecker reports whether a durable credential is present.
type AuthChecker interface {
	IsSignedIn(ctx context.Context) bool
}

// PlaylistAPI is the remote surface the engine pulls from.
type PlaylistAPI interface {
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)
	GetPlaylistItems(ctx context.Context, playlistID string) ([]models.Item, error)
}

// VaultRepository is the persistence surface the engine writes to.
type VaultRepository interface {
	Upsert(playlist *models.Playlist) error
	Items(playlistID string) ([]models.Item, error)
	ReplaceItems(playlistID string, items []models.Item) error
	StampSynced(playlistID string, at time.Time) error
	List(monitoredOnly bool) ([]*models.Playlist, error)
}

// PlaylistSyncResult summarizes one playlist's completed sync cycle.
type PlaylistSyncResult struct {
	PlaylistID  string `json:"playlistId"`
	Title       string `json:"title"`
	Items       int    `json:"items"`
	Unavailable int    `json:"unavailable"`
}

// PlaylistSyncError records one playlist's failure within a bulk cycle.
type PlaylistSyncError struct {
	PlaylistID string `json:"playlistId"`
	Err        error  `json:"-"`
	Message    string `json:"error"`
}

func (e PlaylistSyncError) Error() string {
	return fmt.Sprintf("playlist %s: %v", e.PlaylistID, e.Err)
}

// SyncRunResult aggregates a bulk "sync all" cycle.
type SyncRunResult struct {
	Synced      int                 `json:"synced"`
	Unavailable int                 `json:"unavailable"`
	Errors      []PlaylistSyncError `json:"errors,omitempty"`
}

// SyncEngine drives sync cycles: CheckingAuth, FetchingMetadata,
// FetchingItems, Merging, Persisting, Done.
//
// Playlists within a bulk cycle are processed sequentially; this bounds load
// on the remote API and keeps per-playlist error attribution simple.
type SyncEngine struct {
	auth    AuthChecker
	api     PlaylistAPI
	repo    VaultRepository
	limiter *rate.Limiter
	logger  *log.Logger
	now     func() time.Time
}

// SyncEngineOpts contains construction options for [NewSyncEngine].
type SyncEngineOpts struct {
	Auth      AuthChecker
	API       PlaylistAPI
	Repo      VaultRepository
	RateLimit float64 // requests per second against the remote (default 5)
	Logger    *log.Logger
}

// NewSyncEngine creates a SyncEngine with the provided collaborators.
func NewSyncEngine(opts SyncEngineOpts) *SyncEngine {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &SyncEngine{
		auth:    opts.Auth,
		api:     opts.API,
		repo:    opts.Repo,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:  opts.Logger,
		now:     time.Now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *SyncEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// SyncPlaylist runs one full sync cycle for a single playlist.
//
// The snapshot is persisted and last_synced_at stamped only when the whole
// merge+persist step succeeds.
func (e *SyncEngine) SyncPlaylist(ctx context.Context, progress chan<- ProgressUpdate, playlistID string) (*PlaylistSyncResult, error) {
	return e.syncOne(ctx, progress, playlistID, 1, 1)
}

func (e *SyncEngine) syncOne(ctx context.Context, progress chan<- ProgressUpdate, playlistID string, step, total int) (*PlaylistSyncResult, error) {
	if e.api == nil || e.repo == nil {
		return nil, fmt.Errorf("%w: sync engine not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, checkingAuthUpdate(step, total))
	if e.auth != nil && !e.auth.IsSignedIn(ctx) {
		e.sendProgress(progress, abortedUpdate(step, total))
		return nil, fmt.Errorf("%w: sign in required", shared.ErrNoValidToken)
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchMetadataUpdate(playlistID, step, total))
	meta, err := e.api.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchItemsUpdate(playlistID, meta.Title, step, total))
	fresh, err := e.api.GetPlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	previous, err := e.repo.Items(playlistID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, mergingUpdate(playlistID, len(fresh), len(previous), step, total))
	merged := reconcile.Merge(previous, fresh)

	e.sendProgress(progress, persistingUpdate(playlistID, step, total))
	meta.ItemCount = len(merged)
	if err := e.repo.Upsert(meta); err != nil {
		return nil, err
	}
	if err := e.repo.ReplaceItems(playlistID, merged); err != nil {
		return nil, err
	}
	if err := e.repo.StampSynced(playlistID, e.now()); err != nil {
		return nil, err
	}

	result := &PlaylistSyncResult{
		PlaylistID:  playlistID,
		Title:       meta.Title,
		Items:       len(merged),
		Unavailable: reconcile.CountUnavailable(merged),
	}
	e.sendProgress(progress, doneUpdate(result, step, total))

	return result, nil
}

// SyncAll runs a bulk cycle over every monitored playlist.
//
// One playlist's failure is recorded and does not abort the remaining
// playlists: the cycle has partial-failure semantics, not all-or-nothing.
func (e *SyncEngine) SyncAll(ctx context.Context, progress chan<- ProgressUpdate) (*SyncRunResult, error) {
	if e.repo == nil {
		return nil, fmt.Errorf("%w: sync engine not initialized", shared.ErrServiceUnavailable)
	}

	monitored, err := e.repo.List(true)
	if err != nil {
		return nil, err
	}

	result := &SyncRunResult{}
	total := len(monitored)

	for i, playlist := range monitored {
		synced, err := e.syncOne(ctx, progress, playlist.ID, i+1, total)
		if err != nil {
			e.logger.Warn("playlist sync failed", "playlist", playlist.ID, "err", err)
			e.sendProgress(progress, failedUpdate(playlist.ID, err, i+1, total))
			result.Errors = append(result.Errors, PlaylistSyncError{
				PlaylistID: playlist.ID,
				Err:        err,
				Message:    err.Error(),
			})
			continue
		}

		result.Synced++
		result.Unavailable += synced.Unavailable
	}

	return result, nil
}
