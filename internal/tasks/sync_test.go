package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wardje/tubevault/internal/models"
	"github.com/wardje/tubevault/internal/shared"
)

var (
	_ AuthChecker     = (*fakeAuth)(nil)
	_ PlaylistAPI     = (*fakeAPI)(nil)
	_ VaultRepository = (*fakeVault)(nil)
)

type fakeAuth struct {
	signedIn bool
}

func (f *fakeAuth) IsSignedIn(ctx context.Context) bool { return f.signedIn }

type fakeAPI struct {
	playlists map[string]*models.Playlist
	items     map[string][]models.Item
	itemsErr  map[string]error
}

func (f *fakeAPI) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	p, ok := f.playlists[id]
	if !ok {
		return nil, shared.ErrPlaylistNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeAPI) GetPlaylistItems(ctx context.Context, id string) ([]models.Item, error) {
	if err := f.itemsErr[id]; err != nil {
		return nil, err
	}
	return f.items[id], nil
}

type fakeVault struct {
	playlists map[string]*models.Playlist
	items     map[string][]models.Item
	stamped   map[string]time.Time
	monitored []*models.Playlist
}

func newFakeVault() *fakeVault {
	return &fakeVault{
		playlists: map[string]*models.Playlist{},
		items:     map[string][]models.Item{},
		stamped:   map[string]time.Time{},
	}
}

func (f *fakeVault) Upsert(playlist *models.Playlist) error {
	copied := *playlist
	f.playlists[playlist.ID] = &copied
	return nil
}

func (f *fakeVault) Items(playlistID string) ([]models.Item, error) {
	return f.items[playlistID], nil
}

func (f *fakeVault) ReplaceItems(playlistID string, items []models.Item) error {
	f.items[playlistID] = items
	return nil
}

func (f *fakeVault) StampSynced(playlistID string, at time.Time) error {
	f.stamped[playlistID] = at
	return nil
}

func (f *fakeVault) List(monitoredOnly bool) ([]*models.Playlist, error) {
	return f.monitored, nil
}

func newTestEngine(auth AuthChecker, api PlaylistAPI, repo VaultRepository) *SyncEngine {
	return NewSyncEngine(SyncEngineOpts{
		Auth:      auth,
		API:       api,
		Repo:      repo,
		RateLimit: 1000,
	})
}

func TestSyncPlaylist(t *testing.T) {
	ctx := context.Background()

	t.Run("FullCycle", func(t *testing.T) {
		api := &fakeAPI{
			playlists: map[string]*models.Playlist{
				"pl1": {ID: "pl1", Title: "Road Trip"},
			},
			items: map[string][]models.Item{
				"pl1": {
					{ID: "v1", Title: "Song A", ChannelName: "Artist A", ThumbnailURL: "https://example.com/a.jpg"},
					{ID: "v2", Title: "Deleted video", Unavailable: true},
				},
			},
		}
		vault := newFakeVault()
		vault.items["pl1"] = []models.Item{
			{ID: "v2", Title: "Song B", ChannelName: "Artist B"},
		}
		engine := newTestEngine(&fakeAuth{signedIn: true}, api, vault)

		result, err := engine.SyncPlaylist(ctx, nil, "pl1")
		if err != nil {
			t.Fatalf("SyncPlaylist failed: %v", err)
		}

		if result.Items != 2 || result.Unavailable != 1 {
			t.Errorf("expected 2 items 1 unavailable, got %d/%d", result.Items, result.Unavailable)
		}
		if result.Title != "Road Trip" {
			t.Errorf("expected playlist title in result, got %q", result.Title)
		}

		persisted := vault.items["pl1"]
		if len(persisted) != 2 {
			t.Fatalf("expected 2 persisted items, got %d", len(persisted))
		}
		if persisted[1].OriginalTitle != "Song B" {
			t.Errorf("newly unavailable item should capture original title, got %q", persisted[1].OriginalTitle)
		}
		if vault.playlists["pl1"].ItemCount != 2 {
			t.Errorf("expected upserted item count 2, got %d", vault.playlists["pl1"].ItemCount)
		}
		if _, ok := vault.stamped["pl1"]; !ok {
			t.Error("last synced timestamp should be stamped")
		}
	})

	t.Run("SignedOutAborts", func(t *testing.T) {
		api := &fakeAPI{playlists: map[string]*models.Playlist{"pl1": {ID: "pl1", Title: "Road Trip"}}}
		vault := newFakeVault()
		engine := newTestEngine(&fakeAuth{signedIn: false}, api, vault)

		progress := make(chan ProgressUpdate, 8)
		_, err := engine.SyncPlaylist(ctx, progress, "pl1")
		if !errors.Is(err, shared.ErrNoValidToken) {
			t.Fatalf("expected ErrNoValidToken, got %v", err)
		}

		close(progress)
		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		if len(phases) != 2 || phases[0] != CheckingAuth || phases[1] != Aborted {
			t.Errorf("expected [checking_auth aborted], got %v", phases)
		}
		if len(vault.stamped) != 0 {
			t.Error("nothing should be stamped on abort")
		}
	})

	t.Run("FetchFailureLeavesVaultUntouched", func(t *testing.T) {
		api := &fakeAPI{
			playlists: map[string]*models.Playlist{"pl1": {ID: "pl1", Title: "Road Trip"}},
			itemsErr:  map[string]error{"pl1": shared.ErrServiceUnavailable},
		}
		vault := newFakeVault()
		vault.items["pl1"] = []models.Item{{ID: "v1", Title: "Keep me"}}
		engine := newTestEngine(&fakeAuth{signedIn: true}, api, vault)

		_, err := engine.SyncPlaylist(ctx, nil, "pl1")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Fatalf("expected ErrServiceUnavailable, got %v", err)
		}

		if len(vault.items["pl1"]) != 1 || vault.items["pl1"][0].Title != "Keep me" {
			t.Error("stored snapshot should be untouched after a failed fetch")
		}
	})

	t.Run("ProgressPhases", func(t *testing.T) {
		api := &fakeAPI{
			playlists: map[string]*models.Playlist{"pl1": {ID: "pl1", Title: "Road Trip"}},
			items:     map[string][]models.Item{"pl1": {{ID: "v1", Title: "Song", ChannelName: "Ch", ThumbnailURL: "t"}}},
		}
		engine := newTestEngine(&fakeAuth{signedIn: true}, api, newFakeVault())

		progress := make(chan ProgressUpdate, 16)
		if _, err := engine.SyncPlaylist(ctx, progress, "pl1"); err != nil {
			t.Fatalf("SyncPlaylist failed: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		want := []Phase{CheckingAuth, FetchingMetadata, FetchingItems, Merging, Persisting, Done}
		if len(phases) != len(want) {
			t.Fatalf("expected %d phases, got %v", len(want), phases)
		}
		for i := range want {
			if phases[i] != want[i] {
				t.Errorf("phase %d: expected %v, got %v", i, want[i], phases[i])
			}
		}
	})

	t.Run("NilAuthSkipsCheck", func(t *testing.T) {
		api := &fakeAPI{
			playlists: map[string]*models.Playlist{"pl1": {ID: "pl1", Title: "Road Trip"}},
			items:     map[string][]models.Item{"pl1": {}},
		}
		engine := newTestEngine(nil, api, newFakeVault())

		if _, err := engine.SyncPlaylist(ctx, nil, "pl1"); err != nil {
			t.Errorf("sync without an auth checker should proceed, got %v", err)
		}
	})
}

func TestSyncAll(t *testing.T) {
	ctx := context.Background()

	t.Run("PartialFailure", func(t *testing.T) {
		api := &fakeAPI{
			playlists: map[string]*models.Playlist{
				"ok1": {ID: "ok1", Title: "Fine"},
				"bad": {ID: "bad", Title: "Broken"},
				"ok2": {ID: "ok2", Title: "Also fine"},
			},
			items: map[string][]models.Item{
				"ok1": {{ID: "a", Title: "Deleted video", Unavailable: true}},
				"ok2": {{ID: "b", Title: "Song", ChannelName: "Ch", ThumbnailURL: "t"}},
			},
			itemsErr: map[string]error{"bad": shared.ErrServiceUnavailable},
		}
		vault := newFakeVault()
		vault.monitored = []*models.Playlist{{ID: "ok1"}, {ID: "bad"}, {ID: "ok2"}}
		engine := newTestEngine(&fakeAuth{signedIn: true}, api, vault)

		run, err := engine.SyncAll(ctx, nil)
		if err != nil {
			t.Fatalf("SyncAll failed: %v", err)
		}

		if run.Synced != 2 {
			t.Errorf("expected 2 synced, got %d", run.Synced)
		}
		if run.Unavailable != 1 {
			t.Errorf("expected 1 unavailable, got %d", run.Unavailable)
		}
		if len(run.Errors) != 1 {
			t.Fatalf("expected 1 error, got %d", len(run.Errors))
		}
		if run.Errors[0].PlaylistID != "bad" {
			t.Errorf("expected error attributed to bad, got %s", run.Errors[0].PlaylistID)
		}
		if !errors.Is(run.Errors[0].Err, shared.ErrServiceUnavailable) {
			t.Errorf("expected wrapped cause, got %v", run.Errors[0].Err)
		}

		// The playlist after the failed one was still synced.
		if _, ok := vault.stamped["ok2"]; !ok {
			t.Error("playlists after a failure should still sync")
		}
	})

	t.Run("NoMonitoredPlaylists", func(t *testing.T) {
		engine := newTestEngine(&fakeAuth{signedIn: true}, &fakeAPI{}, newFakeVault())

		run, err := engine.SyncAll(ctx, nil)
		if err != nil {
			t.Fatalf("SyncAll failed: %v", err)
		}
		if run.Synced != 0 || len(run.Errors) != 0 {
			t.Errorf("empty cycle expected, got %+v", run)
		}
	})
}
