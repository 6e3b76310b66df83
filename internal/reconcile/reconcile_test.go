package reconcile

import (
	"testing"

	"github.com/wardje/tubevault/internal/models"
)

func available(id, title, channel string) models.Item {
	return models.Item{
		ID:           id,
		Title:        title,
		ChannelName:  channel,
		ThumbnailURL: "https://example.com/" + id + ".jpg",
	}
}

func unavailable(id string) models.Item {
	return models.Item{ID: id, Title: "Deleted video", Unavailable: true}
}

func TestMerge(t *testing.T) {
	t.Run("FreshOrderWins", func(t *testing.T) {
		previous := []models.Item{
			available("a", "First", "Ch1"),
			available("b", "Second", "Ch2"),
			available("c", "Third", "Ch3"),
		}
		fresh := []models.Item{
			available("c", "Third", "Ch3"),
			available("a", "First", "Ch1"),
		}

		merged := Merge(previous, fresh)

		if len(merged) != 2 {
			t.Fatalf("expected 2 items, got %d", len(merged))
		}
		if merged[0].ID != "c" || merged[1].ID != "a" {
			t.Errorf("expected order [c a], got [%s %s]", merged[0].ID, merged[1].ID)
		}
	})

	t.Run("RemovedItemsDropped", func(t *testing.T) {
		previous := []models.Item{
			available("a", "Kept", "Ch1"),
			available("b", "Removed remotely", "Ch2"),
		}
		fresh := []models.Item{available("a", "Kept", "Ch1")}

		merged := Merge(previous, fresh)

		if len(merged) != 1 {
			t.Fatalf("expected 1 item, got %d", len(merged))
		}
		if merged[0].ID != "a" {
			t.Errorf("expected item a, got %s", merged[0].ID)
		}
	})

	t.Run("NewlyUnavailableCapturesOriginals", func(t *testing.T) {
		previous := []models.Item{available("a", "My Favorite Song", "Cool Channel")}
		fresh := []models.Item{unavailable("a")}

		merged := Merge(previous, fresh)

		got := merged[0]
		if !got.Unavailable {
			t.Fatal("item should remain unavailable")
		}
		if got.OriginalTitle != "My Favorite Song" {
			t.Errorf("expected original title 'My Favorite Song', got %q", got.OriginalTitle)
		}
		if got.OriginalChannelName != "Cool Channel" {
			t.Errorf("expected original channel 'Cool Channel', got %q", got.OriginalChannelName)
		}
		if got.OriginalThumbnailURL != "https://example.com/a.jpg" {
			t.Errorf("expected original thumbnail preserved, got %q", got.OriginalThumbnailURL)
		}
		if got.Title != "Deleted video" {
			t.Errorf("live title should come from fresh, got %q", got.Title)
		}
	})

	t.Run("StillUnavailableCarriesOriginalsForward", func(t *testing.T) {
		prev := unavailable("a")
		prev.OriginalTitle = "My Favorite Song"
		prev.OriginalChannelName = "Cool Channel"
		prev.OriginalThumbnailURL = "https://example.com/a.jpg"

		merged := Merge([]models.Item{prev}, []models.Item{unavailable("a")})

		got := merged[0]
		if got.OriginalTitle != "My Favorite Song" || got.OriginalChannelName != "Cool Channel" {
			t.Errorf("originals should carry forward, got %q / %q", got.OriginalTitle, got.OriginalChannelName)
		}
	})

	t.Run("RecoveredItemClearsOriginals", func(t *testing.T) {
		prev := unavailable("a")
		prev.OriginalTitle = "My Favorite Song"

		merged := Merge([]models.Item{prev}, []models.Item{available("a", "My Favorite Song", "Cool Channel")})

		got := merged[0]
		if got.Unavailable {
			t.Error("recovered item should be available")
		}
		if got.HasOriginal() {
			t.Errorf("originals should be cleared, got title %q", got.OriginalTitle)
		}
	})

	t.Run("BornUnavailableHasNoOriginals", func(t *testing.T) {
		merged := Merge(nil, []models.Item{unavailable("a")})

		if merged[0].HasOriginal() {
			t.Error("an item never seen available has no originals to preserve")
		}
	})

	t.Run("StillUnavailableWithoutOriginalsStaysBare", func(t *testing.T) {
		merged := Merge([]models.Item{unavailable("a")}, []models.Item{unavailable("a")})

		if merged[0].HasOriginal() {
			t.Error("no known-good metadata exists for this item")
		}
	})

	t.Run("FreshOriginalsNeverTrusted", func(t *testing.T) {
		tainted := unavailable("a")
		tainted.OriginalTitle = "spoofed"

		merged := Merge(nil, []models.Item{tainted})

		if merged[0].OriginalTitle != "" {
			t.Errorf("originals on a fresh record should be discarded, got %q", merged[0].OriginalTitle)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		previous := []models.Item{
			available("a", "Song A", "Ch A"),
			available("b", "Song B", "Ch B"),
			available("c", "Song C", "Ch C"),
		}
		fresh := []models.Item{
			available("a", "Song A", "Ch A"),
			unavailable("b"),
			unavailable("c"),
		}

		once := Merge(previous, fresh)
		twice := Merge(once, fresh)

		if len(once) != len(twice) {
			t.Fatalf("lengths differ: %d vs %d", len(once), len(twice))
		}
		for i := range once {
			if once[i] != twice[i] {
				t.Errorf("item %d changed on re-merge: %+v vs %+v", i, once[i], twice[i])
			}
		}
	})

	t.Run("EmptyFresh", func(t *testing.T) {
		merged := Merge([]models.Item{available("a", "Song", "Ch")}, nil)

		if len(merged) != 0 {
			t.Errorf("empty fresh snapshot empties the playlist, got %d items", len(merged))
		}
	})
}

func TestCountUnavailable(t *testing.T) {
	items := []models.Item{
		available("a", "Song A", "Ch A"),
		unavailable("b"),
		unavailable("c"),
	}

	if got := CountUnavailable(items); got != 2 {
		t.Errorf("expected 2 unavailable, got %d", got)
	}
	if got := CountUnavailable(nil); got != 0 {
		t.Errorf("expected 0 for empty slice, got %d", got)
	}
}
