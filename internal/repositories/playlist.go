package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/wardje/tubevault/internal/models"
	"github.com/wardje/tubevault/internal/shared"
)

// PlaylistRepository persists playlist metadata and ordered item snapshots.
//
// Playlists are created on first successful sync, mutated on every sync, and
// deleted only by explicit user action.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Upsert inserts or updates a playlist's metadata.
//
// The monitored flag and last_synced_at stamp are owned by their dedicated
// methods and left untouched on update.
func (r *PlaylistRepository) Upsert(playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO playlists (id, title, description, thumbnail_url, item_count, monitored, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			thumbnail_url = excluded.thumbnail_url,
			item_count = excluded.item_count,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		playlist.ID,
		playlist.Title,
		playlist.Description,
		playlist.ThumbnailURL,
		playlist.ItemCount,
		playlist.Monitored,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by ID with its ordered item snapshot.
func (r *PlaylistRepository) Get(id string) (*models.Playlist, error) {
	query := `
		SELECT id, title, description, thumbnail_url, item_count, monitored, last_synced_at
		FROM playlists
		WHERE id = ?
	`

	playlist, err := scanPlaylist(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	items, err := r.Items(id)
	if err != nil {
		return nil, err
	}
	playlist.Items = items

	return playlist, nil
}

// List retrieves all playlists without their item snapshots.
//
// When monitoredOnly is true, only playlists flagged for monitoring are
// returned.
func (r *PlaylistRepository) List(monitoredOnly bool) ([]*models.Playlist, error) {
	query := `
		SELECT id, title, description, thumbnail_url, item_count, monitored, last_synced_at
		FROM playlists
	`
	if monitoredOnly {
		query += " WHERE monitored = 1"
	}
	query += " ORDER BY title ASC"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// Items retrieves a playlist's item snapshot in stored position order.
func (r *PlaylistRepository) Items(playlistID string) ([]models.Item, error) {
	query := `
		SELECT video_id, title, channel_name, channel_id, thumbnail_url, description,
		       position, added_at, unavailable,
		       original_title, original_channel_name, original_thumbnail_url
		FROM playlist_items
		WHERE playlist_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var addedAt sql.NullTime
		err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.ChannelName,
			&item.ChannelID,
			&item.ThumbnailURL,
			&item.Description,
			&item.Position,
			&addedAt,
			&item.Unavailable,
			&item.OriginalTitle,
			&item.OriginalChannelName,
			&item.OriginalThumbnailURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if addedAt.Valid {
			item.AddedAt = addedAt.Time
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// ReplaceItems swaps the playlist's stored item snapshot for the given
// sequence in a single transaction, preserving the sequence order.
func (r *PlaylistRepository) ReplaceItems(playlistID string, items []models.Item) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM playlist_items WHERE playlist_id = ?", playlistID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	query := `
		INSERT INTO playlist_items (
			playlist_id, video_id, title, channel_name, channel_id, thumbnail_url,
			description, position, added_at, unavailable,
			original_title, original_channel_name, original_thumbnail_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, item := range items {
		_, err := tx.Exec(query,
			playlistID,
			item.ID,
			item.Title,
			item.ChannelName,
			item.ChannelID,
			item.ThumbnailURL,
			item.Description,
			i,
			item.AddedAt,
			item.Unavailable,
			item.OriginalTitle,
			item.OriginalChannelName,
			item.OriginalThumbnailURL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

// SetMonitored toggles the user-controlled monitoring flag.
func (r *PlaylistRepository) SetMonitored(id string, monitored bool) error {
	result, err := r.db.Exec("UPDATE playlists SET monitored = ?, updated_at = ? WHERE id = ?", monitored, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set monitored flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return nil
}

// StampSynced records a successful sync completion time.
func (r *PlaylistRepository) StampSynced(id string, at time.Time) error {
	result, err := r.db.Exec("UPDATE playlists SET last_synced_at = ? WHERE id = ?", at, id)
	if err != nil {
		return fmt.Errorf("failed to stamp sync time: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return nil
}

// Delete removes a playlist and, via cascade, its item snapshot.
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return nil
}

// scanTarget abstracts over [sql.Row] and [sql.Rows].
type scanTarget interface {
	Scan(dest ...any) error
}

func scanPlaylist(row scanTarget) (*models.Playlist, error) {
	var playlist models.Playlist
	var lastSynced sql.NullTime

	err := row.Scan(
		&playlist.ID,
		&playlist.Title,
		&playlist.Description,
		&playlist.ThumbnailURL,
		&playlist.ItemCount,
		&playlist.Monitored,
		&lastSynced,
	)
	if err == sql.ErrNoRows {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	if lastSynced.Valid {
		playlist.LastSyncedAt = &lastSynced.Time
	}

	return &playlist, nil
}
