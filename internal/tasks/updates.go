package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase      Phase  // Sync cycle phase
	PlaylistID string // Playlist the update concerns ("" for cycle-level events)
	Step       int    // Current step number within the cycle
	Total      int    // Total steps in the cycle
	Message    string // Human-readable message for display
	Data       any    // Optional phase-specific data for advanced UIs
}

// Phase enumerates the states of a per-playlist sync cycle.
type Phase int

const (
	CheckingAuth Phase = iota
	Aborted
	FetchingMetadata
	FetchingItems
	Merging
	Persisting
	Done
)

func (p Phase) String() string {
	switch p {
	case CheckingAuth:
		return "checking_auth"
	case Aborted:
		return "aborted"
	case FetchingMetadata:
		return "fetching_metadata"
	case FetchingItems:
		return "fetching_items"
	case Merging:
		return "merging"
	case Persisting:
		return "persisting"
	case Done:
		return "done"
	default:
		return ""
	}
}

func checkingAuthUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CheckingAuth,
		Step:    step,
		Total:   total,
		Message: "Checking authentication...",
	}
}

func abortedUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Aborted,
		Step:    step,
		Total:   total,
		Message: "Not signed in, sync aborted",
	}
}

func fetchMetadataUpdate(id string, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:      FetchingMetadata,
		PlaylistID: id,
		Step:       step,
		Total:      total,
		Message:    fmt.Sprintf("Fetching playlist metadata (%s)...", id),
	}
}

func fetchItemsUpdate(id, title string, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:      FetchingItems,
		PlaylistID: id,
		Step:       step,
		Total:      total,
		Message:    fmt.Sprintf("Fetching items: %s...", title),
	}
}

func mergingUpdate(id string, fresh, previous, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:      Merging,
		PlaylistID: id,
		Step:       step,
		Total:      total,
		Message:    fmt.Sprintf("Merging %d fetched against %d stored items...", fresh, previous),
	}
}

func persistingUpdate(id string, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:      Persisting,
		PlaylistID: id,
		Step:       step,
		Total:      total,
		Message:    "Persisting snapshot...",
	}
}

func doneUpdate(result *PlaylistSyncResult, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:      Done,
		PlaylistID: result.PlaylistID,
		Step:       step,
		Total:      total,
		Message:    fmt.Sprintf("✓ %s (%d items, %d unavailable)", result.Title, result.Items, result.Unavailable),
		Data:       result,
	}
}

func failedUpdate(id string, err error, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:      Done,
		PlaylistID: id,
		Step:       step,
		Total:      total,
		Message:    fmt.Sprintf("✗ %s: %v", id, err),
	}
}
