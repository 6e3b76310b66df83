package services

// DefaultSentinelTitles are the titles the remote serves in place of videos
// it can no longer play.
var DefaultSentinelTitles = []string{"Deleted video", "Private video"}

// ItemRecord is the slice of a fetched playlist-item record the classifier
// inspects.
type ItemRecord struct {
	Title            string
	OwnerChannelName string
	ThumbnailURL     string
}

// Classifier decides whether a fetched record describes an unavailable item.
//
// This is a best-effort heuristic against an undocumented surface: the
// remote signals unavailability with sentinel titles, and unavailable items
// also lack the owner-channel and thumbnail fields available items always
// carry. The sentinel set is configurable because the remote may change its
// strings, and legitimately sparse records could otherwise be misclassified.
type Classifier struct {
	sentinels map[string]bool
}

// NewClassifier creates a Classifier with the given sentinel titles, falling
// back to [DefaultSentinelTitles] when none are provided.
func NewClassifier(sentinelTitles []string) *Classifier {
	if len(sentinelTitles) == 0 {
		sentinelTitles = DefaultSentinelTitles
	}

	sentinels := make(map[string]bool, len(sentinelTitles))
	for _, title := range sentinelTitles {
		sentinels[title] = true
	}

	return &Classifier{sentinels: sentinels}
}

// IsUnavailable reports whether the record describes an item the remote
// still lists but cannot serve. Pure function of the single fetched record;
// it never consults persisted state.
func (c *Classifier) IsUnavailable(rec ItemRecord) bool {
	if c.sentinels[rec.Title] {
		return true
	}
	return rec.OwnerChannelName == "" && rec.ThumbnailURL == ""
}
