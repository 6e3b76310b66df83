package services

import "testing"

func TestClassifier(t *testing.T) {
	t.Run("SentinelTitles", func(t *testing.T) {
		c := NewClassifier(nil)

		for _, title := range []string{"Deleted video", "Private video"} {
			rec := ItemRecord{Title: title, OwnerChannelName: "Some Channel", ThumbnailURL: "https://example.com/t.jpg"}
			if !c.IsUnavailable(rec) {
				t.Errorf("title %q should classify as unavailable", title)
			}
		}
	})

	t.Run("MissingOwnerAndThumbnail", func(t *testing.T) {
		c := NewClassifier(nil)

		rec := ItemRecord{Title: "Some normal title"}
		if !c.IsUnavailable(rec) {
			t.Error("record without owner channel or thumbnail should classify as unavailable")
		}
	})

	t.Run("AvailableRecord", func(t *testing.T) {
		c := NewClassifier(nil)

		rec := ItemRecord{Title: "Great Song", OwnerChannelName: "Artist", ThumbnailURL: "https://example.com/t.jpg"}
		if c.IsUnavailable(rec) {
			t.Error("complete record should classify as available")
		}
	})

	t.Run("SparseButNotEmpty", func(t *testing.T) {
		c := NewClassifier(nil)

		withOwner := ItemRecord{Title: "Song", OwnerChannelName: "Artist"}
		if c.IsUnavailable(withOwner) {
			t.Error("record with an owner channel should classify as available")
		}

		withThumb := ItemRecord{Title: "Song", ThumbnailURL: "https://example.com/t.jpg"}
		if c.IsUnavailable(withThumb) {
			t.Error("record with a thumbnail should classify as available")
		}
	})

	t.Run("CustomSentinels", func(t *testing.T) {
		c := NewClassifier([]string{"Video indisponible"})

		rec := ItemRecord{Title: "Video indisponible", OwnerChannelName: "x", ThumbnailURL: "y"}
		if !c.IsUnavailable(rec) {
			t.Error("custom sentinel title should classify as unavailable")
		}

		def := ItemRecord{Title: "Deleted video", OwnerChannelName: "x", ThumbnailURL: "y"}
		if c.IsUnavailable(def) {
			t.Error("default sentinels should not apply when custom ones are set")
		}
	})
}
