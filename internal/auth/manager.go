// Package auth owns the OAuth credential lifecycle: acquisition, caching,
// silent refresh, and revocation.
//
// Only the authorization-code+PKCE+refresh variant is implemented; it is the
// one flow that gives durable "signed in" semantics independent of the
// short-lived access token cache.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wardje/tubevault/internal/models"
	"github.com/wardje/tubevault/internal/shared"
	"golang.org/x/oauth2"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"

	credentialKey = "credential"

	// ExpiryMargin is subtracted from the declared token lifetime at storage
	// time, so a cached token is never handed out within the margin of its
	// true expiry and readers only ever need a `now < expiry` check.
	ExpiryMargin = 60 * time.Second

	defaultRevokeURL = "https://oauth2.googleapis.com/revoke"
)

// Scopes required for reading the user's playlists.
var Scopes = []string{"https://www.googleapis.com/auth/youtube.readonly"}

// NewOAuthConfig builds the oauth2 client configuration for the YouTube Data API.
func NewOAuthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthURL,
			TokenURL: googleTokenURL,
		},
	}
}

// CredentialStore is the slice of the key-value store the manager needs.
type CredentialStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Flow performs the interactive authorization round trip (browser + local
// callback). Implementations return [shared.ErrAuthCancelled] when the user
// dismisses the prompt and [shared.ErrTokenExchange] on exchange failure.
type Flow interface {
	Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error)
}

// Manager implements the token lifecycle decision table: cached check, then
// silent refresh, then (when permitted) the interactive flow.
type Manager struct {
	config     *oauth2.Config
	store      CredentialStore
	flow       Flow
	httpClient *http.Client
	logger     *log.Logger
	revokeURL  string
	now        func() time.Time
}

// ManagerOpts contains construction options for [NewManager].
type ManagerOpts struct {
	Config     *oauth2.Config
	Store      CredentialStore
	Flow       Flow
	HTTPClient *http.Client
	Logger     *log.Logger
	RevokeURL  string
}

// NewManager creates a Manager. Store and Config are required; the rest
// default sensibly.
func NewManager(opts ManagerOpts) *Manager {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.RevokeURL == "" {
		opts.RevokeURL = defaultRevokeURL
	}

	return &Manager{
		config:     opts.Config,
		store:      opts.Store,
		flow:       opts.Flow,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		revokeURL:  opts.RevokeURL,
		now:        time.Now,
	}
}

// GetToken returns a currently valid access token.
//
// A cached unexpired token is returned without any network call. Otherwise a
// refresh is attempted when a refresh token exists. When neither path yields
// a token: non-interactive callers get [shared.ErrNoValidToken], interactive
// callers fall through to the authorization flow (including after a failed
// refresh).
func (m *Manager) GetToken(ctx context.Context, interactive bool) (*oauth2.Token, error) {
	cred := m.load()

	if cred != nil && cred.Valid(m.now()) {
		return &oauth2.Token{
			AccessToken:  cred.AccessToken,
			RefreshToken: cred.RefreshToken,
			Expiry:       cred.Expiry,
		}, nil
	}

	if cred != nil && cred.RefreshToken != "" {
		token, err := m.refresh(ctx, cred)
		if err == nil {
			return token, nil
		}
		if !interactive {
			return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
		}
		m.logger.Warn("token refresh failed, falling back to interactive flow", "err", err)
	} else if !interactive {
		return nil, shared.ErrNoValidToken
	}

	if m.flow == nil {
		return nil, fmt.Errorf("%w: no interactive flow configured", shared.ErrNoValidToken)
	}

	token, err := m.flow.Authorize(ctx, m.config)
	if err != nil {
		return nil, err
	}

	return m.save(token, "")
}

// IsSignedIn reports whether a durable credential (refresh capability) is
// present. A cached short-lived access token alone does not count.
func (m *Manager) IsSignedIn(ctx context.Context) bool {
	cred := m.load()
	return cred != nil && cred.RefreshToken != ""
}

// SignOut revokes the current access token with the authorization server
// (best effort; revocation failures are swallowed) and unconditionally erases
// the stored credential.
func (m *Manager) SignOut(ctx context.Context) error {
	if cred := m.load(); cred != nil && cred.AccessToken != "" {
		if err := m.revoke(ctx, cred.AccessToken); err != nil {
			m.logger.Warn("token revocation failed", "err", err)
		}
	}

	return m.store.Remove(credentialKey)
}

// Invalidate drops the cached access token while keeping the refresh token,
// so the next GetToken attempts a silent refresh. Used when the remote
// rejects a token we believed valid.
func (m *Manager) Invalidate(ctx context.Context) error {
	cred := m.load()
	if cred == nil {
		return nil
	}

	cred.AccessToken = ""
	cred.Expiry = time.Time{}
	return m.persist(cred)
}

// refresh exchanges the refresh token for a new access token and persists it.
func (m *Manager) refresh(ctx context.Context, cred *models.Credential) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	src := m.config.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})

	token, err := src.Token()
	if err != nil {
		return nil, err
	}

	return m.save(token, cred.RefreshToken)
}

// save persists a freshly granted token with the expiry margin applied.
//
// When the server does not rotate the refresh token, the previous one is
// preserved unchanged.
func (m *Manager) save(token *oauth2.Token, prevRefreshToken string) (*oauth2.Token, error) {
	cred := models.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if cred.RefreshToken == "" {
		cred.RefreshToken = prevRefreshToken
	}
	if !token.Expiry.IsZero() {
		cred.Expiry = token.Expiry.Add(-ExpiryMargin)
	}

	if err := m.persist(&cred); err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.Expiry,
	}, nil
}

// load reads the stored credential. The store enforces no schema, so an
// unreadable or malformed value is treated the same as no credential.
func (m *Manager) load() *models.Credential {
	raw, ok, err := m.store.Get(credentialKey)
	if err != nil {
		m.logger.Warn("failed to read credential", "err", err)
		return nil
	}
	if !ok {
		return nil
	}

	var cred models.Credential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		m.logger.Warn("discarding malformed credential", "err", err)
		return nil
	}

	return &cred
}

func (m *Manager) persist(cred *models.Credential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	return m.store.Set(credentialKey, string(raw))
}

func (m *Manager) revoke(ctx context.Context, accessToken string) error {
	form := url.Values{"token": {accessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("revoke endpoint returned status %d", resp.StatusCode)
	}

	return nil
}
