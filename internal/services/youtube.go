// YouTube Data API v3 client.
//
// Response types based on https://developers.google.com/youtube/v3/docs
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wardje/tubevault/internal/models"
	"github.com/wardje/tubevault/internal/shared"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	pageSize       = 50
)

// TokenProvider supplies a valid access token before each remote call and
// invalidates the cached one when the remote rejects it.
type TokenProvider interface {
	GetToken(ctx context.Context, interactive bool) (*oauth2.Token, error)
	Invalidate(ctx context.Context) error
}

// youtubeThumbnail represents a single thumbnail rendition.
type youtubeThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// youtubeThumbnails holds the renditions the API returns. Empty for
// unavailable items.
type youtubeThumbnails struct {
	Default youtubeThumbnail `json:"default"`
	Medium  youtubeThumbnail `json:"medium"`
	High    youtubeThumbnail `json:"high"`
}

// best picks the preferred rendition URL, largest first.
func (t youtubeThumbnails) best() string {
	switch {
	case t.Medium.URL != "":
		return t.Medium.URL
	case t.High.URL != "":
		return t.High.URL
	default:
		return t.Default.URL
	}
}

// YouTubeService pages through the playlist endpoints. A fresh token is
// acquired per page rather than cached across the whole walk, since a long
// paginated walk could outlive a short-lived token.
type YouTubeService struct {
	baseURL    string
	tokens     TokenProvider
	classifier *Classifier
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube Data API client.
func NewYouTubeService(baseURL string, tokens TokenProvider, classifier *Classifier) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if classifier == nil {
		classifier = NewClassifier(nil)
	}

	return &YouTubeService{
		baseURL:    baseURL,
		tokens:     tokens,
		classifier: classifier,
		httpClient: http.DefaultClient,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// SetHTTPClient replaces the underlying HTTP client.
func (y *YouTubeService) SetHTTPClient(client *http.Client) {
	if client != nil {
		y.httpClient = client
	}
}

// doRequest performs one authenticated GET against the API.
//
// The token is re-acquired for every request. An unauthorized response
// invalidates the cached token and surfaces [shared.ErrSessionExpired];
// other failures carry the remote status and message in a [shared.APIError].
func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, query url.Values, result any) error {
	token, err := y.tokens.GetToken(ctx, false)
	if err != nil {
		return err
	}

	apiURL := y.baseURL + endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if invErr := y.tokens.Invalidate(ctx); invErr != nil {
			return fmt.Errorf("%w: %v", shared.ErrSessionExpired, invErr)
		}
		return fmt.Errorf("%w: remote rejected access token", shared.ErrSessionExpired)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		message := ""
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			message = errResp.Error.Message
		}
		return &shared.APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// GetPlaylists retrieves all of the authenticated user's playlists,
// concatenating pages in server-provided order.
func (y *YouTubeService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	pageToken := ""

	for {
		var page struct {
			NextPageToken string `json:"nextPageToken"`
			Items         []struct {
				ID      string `json:"id"`
				Snippet struct {
					Title       string            `json:"title"`
					Description string            `json:"description"`
					Thumbnails  youtubeThumbnails `json:"thumbnails"`
				} `json:"snippet"`
				ContentDetails struct {
					ItemCount int `json:"itemCount"`
				} `json:"contentDetails"`
			} `json:"items"`
		}

		query := url.Values{
			"part":       {"snippet,contentDetails"},
			"mine":       {"true"},
			"maxResults": {fmt.Sprintf("%d", pageSize)},
		}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		if err := y.doRequest(ctx, "/playlists", query, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			playlists = append(playlists, models.Playlist{
				ID:           item.ID,
				Title:        item.Snippet.Title,
				Description:  item.Snippet.Description,
				ThumbnailURL: item.Snippet.Thumbnails.best(),
				ItemCount:    item.ContentDetails.ItemCount,
			})
		}

		if page.NextPageToken == "" {
			return playlists, nil
		}
		pageToken = page.NextPageToken
	}
}

// GetPlaylist retrieves a single playlist's metadata by ID.
func (y *YouTubeService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	var response struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title       string            `json:"title"`
				Description string            `json:"description"`
				Thumbnails  youtubeThumbnails `json:"thumbnails"`
			} `json:"snippet"`
			ContentDetails struct {
				ItemCount int `json:"itemCount"`
			} `json:"contentDetails"`
		} `json:"items"`
	}

	query := url.Values{
		"part": {"snippet,contentDetails"},
		"id":   {playlistID},
	}

	if err := y.doRequest(ctx, "/playlists", query, &response); err != nil {
		return nil, err
	}

	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	item := response.Items[0]
	return &models.Playlist{
		ID:           item.ID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ThumbnailURL: item.Snippet.Thumbnails.best(),
		ItemCount:    item.ContentDetails.ItemCount,
	}, nil
}

// GetPlaylistItems retrieves all items of a playlist, classifying each one's
// availability from the fetched record alone.
func (y *YouTubeService) GetPlaylistItems(ctx context.Context, playlistID string) ([]models.Item, error) {
	var items []models.Item
	pageToken := ""

	for {
		var page struct {
			NextPageToken string `json:"nextPageToken"`
			Items         []struct {
				Snippet struct {
					Title                 string            `json:"title"`
					Description           string            `json:"description"`
					Position              int               `json:"position"`
					PublishedAt           time.Time         `json:"publishedAt"`
					VideoOwnerChannelID   string            `json:"videoOwnerChannelId"`
					VideoOwnerChannelName string            `json:"videoOwnerChannelTitle"`
					Thumbnails            youtubeThumbnails `json:"thumbnails"`
					ResourceID            struct {
						VideoID string `json:"videoId"`
					} `json:"resourceId"`
				} `json:"snippet"`
			} `json:"items"`
		}

		query := url.Values{
			"part":       {"snippet"},
			"playlistId": {playlistID},
			"maxResults": {fmt.Sprintf("%d", pageSize)},
		}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		if err := y.doRequest(ctx, "/playlistItems", query, &page); err != nil {
			return nil, err
		}

		for _, rec := range page.Items {
			thumbnail := rec.Snippet.Thumbnails.best()
			items = append(items, models.Item{
				ID:           rec.Snippet.ResourceID.VideoID,
				Title:        rec.Snippet.Title,
				ChannelName:  rec.Snippet.VideoOwnerChannelName,
				ChannelID:    rec.Snippet.VideoOwnerChannelID,
				ThumbnailURL: thumbnail,
				Description:  rec.Snippet.Description,
				Position:     rec.Snippet.Position,
				AddedAt:      rec.Snippet.PublishedAt,
				Unavailable: y.classifier.IsUnavailable(ItemRecord{
					Title:            rec.Snippet.Title,
					OwnerChannelName: rec.Snippet.VideoOwnerChannelName,
					ThumbnailURL:     thumbnail,
				}),
			})
		}

		if page.NextPageToken == "" {
			return items, nil
		}
		pageToken = page.NextPageToken
	}
}
