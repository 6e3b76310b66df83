// Package services communicates with the YouTube Data API v3: paginated
// playlist and playlist-item listings, plus fetch-time availability
// classification of each item.
package services
