// Package reconcile merges a freshly fetched playlist snapshot against the
// previously persisted one.
//
// The remote is the source of truth for membership and ordering; the vault's
// contribution is the preserved-original metadata for items the remote still
// lists but can no longer serve.
package reconcile

import "github.com/wardje/tubevault/internal/models"

// Merge combines a fresh snapshot with the previous one.
//
// Output membership and order are exactly fresh's. Items absent from fresh
// are dropped (removed from the playlist remotely, which is distinct from
// unavailable). Per item:
//
//   - fresh available: emitted as-is, any preserved originals cleared
//   - fresh unavailable, never seen before: emitted as-is
//   - fresh unavailable, previously available: last-known metadata from the
//     prior record is captured into the Original* fields
//   - fresh unavailable, previously unavailable with originals: the prior
//     originals are carried forward unchanged
//   - fresh unavailable, previously unavailable without originals: emitted
//     as-is (no known-good metadata exists)
//
// Merge is idempotent: merging an already-merged result against the same
// fresh snapshot changes nothing.
func Merge(previous, fresh []models.Item) []models.Item {
	prior := make(map[string]models.Item, len(previous))
	for _, item := range previous {
		prior[item.ID] = item
	}

	merged := make([]models.Item, len(fresh))
	for i, item := range fresh {
		if !item.Unavailable {
			item.ClearOriginal()
			merged[i] = item
			continue
		}

		prev, seen := prior[item.ID]
		switch {
		case !seen:
			item.ClearOriginal()
		case !prev.Unavailable:
			item.OriginalTitle = prev.Title
			item.OriginalChannelName = prev.ChannelName
			item.OriginalThumbnailURL = prev.ThumbnailURL
		case prev.HasOriginal():
			item.OriginalTitle = prev.OriginalTitle
			item.OriginalChannelName = prev.OriginalChannelName
			item.OriginalThumbnailURL = prev.OriginalThumbnailURL
		default:
			item.ClearOriginal()
		}
		merged[i] = item
	}

	return merged
}

// CountUnavailable returns the number of items flagged unavailable.
func CountUnavailable(items []models.Item) int {
	count := 0
	for _, item := range items {
		if item.Unavailable {
			count++
		}
	}
	return count
}
