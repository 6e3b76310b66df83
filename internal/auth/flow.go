package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wardje/tubevault/internal/server"
	"github.com/wardje/tubevault/internal/shared"
	"golang.org/x/oauth2"
)

// BrowserFlow implements [Flow] with the authorization-code+PKCE round trip:
// a local callback server is started, the system browser is opened to the
// consent page, and the callback exchanges the code using the PKCE verifier.
type BrowserFlow struct {
	Addr    string        // listen address for the callback server, e.g. "127.0.0.1:8765"
	Timeout time.Duration // how long to wait for the user before giving up
	Logger  *log.Logger
	Output  func(format string, args ...any) // fallback when the browser cannot be opened
}

// NewBrowserFlow creates a BrowserFlow listening on addr.
func NewBrowserFlow(addr string, logger *log.Logger) *BrowserFlow {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &BrowserFlow{
		Addr:    addr,
		Timeout: 5 * time.Minute,
		Logger:  logger,
	}
}

// Authorize runs the interactive flow and returns the granted token.
//
// Returns [shared.ErrAuthCancelled] when the user denies consent, the context
// is cancelled, or the timeout elapses; [shared.ErrTokenExchange] when the
// code exchange with the token endpoint fails.
func (f *BrowserFlow) Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	state := shared.GenerateID()
	verifier := oauth2.GenerateVerifier()

	handler := server.NewOAuthHandler(config, state, oauth2.VerifierOption(verifier))
	router := server.NewBasicRouter()
	router.Use(server.Logging(f.Logger))
	router.Handler(handler)

	srv := &http.Server{Addr: f.Addr, Handler: router}
	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("prompt", "consent"),
	)

	if err := shared.OpenBrowser(authURL); err != nil {
		f.Logger.Warn("could not open browser", "err", err)
		if f.Output != nil {
			f.Output("Open this URL to authorize:\n\n%s\n", authURL)
		}
	}

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return nil, err
		}
		return result.Token, nil
	case err := <-errChan:
		return nil, fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthCancelled, ctx.Err())
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w: timed out waiting for authorization", shared.ErrAuthCancelled)
	}
}
