// Package models defines the data model for the playlist vault: remote
// playlists and their items, the stored OAuth credential, and user settings.
package models
