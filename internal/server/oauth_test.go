package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wardje/tubevault/internal/shared"
	"golang.org/x/oauth2"
)

func newCallbackConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8765/callback",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}
}

func TestOAuthHandler(t *testing.T) {
	t.Run("SuccessfulCallback", func(t *testing.T) {
		tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Fatalf("failed to parse form: %v", err)
			}
			if got := r.Form.Get("code"); got != "auth-code" {
				t.Errorf("expected code auth-code, got %q", got)
			}
			if got := r.Form.Get("code_verifier"); got != "pkce-verifier" {
				t.Errorf("expected PKCE verifier forwarded, got %q", got)
			}

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token": "granted", "token_type": "Bearer", "expires_in": 3600}`)
		}))
		defer tokenSrv.Close()

		handler := NewOAuthHandler(newCallbackConfig(tokenSrv.URL), "state-token", oauth2.VerifierOption("pkce-verifier"))

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state-token&code=auth-code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("unexpected error: %v", result.Error())
		}
		if result.Token.AccessToken != "granted" {
			t.Errorf("expected granted token, got %q", result.Token.AccessToken)
		}
	})

	t.Run("StateMismatch", func(t *testing.T) {
		handler := NewOAuthHandler(newCallbackConfig("http://127.0.0.1:0"), "expected-state")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=forged&code=auth-code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("state mismatch should produce an error")
		}
	})

	t.Run("UserDeniedConsent", func(t *testing.T) {
		handler := NewOAuthHandler(newCallbackConfig("http://127.0.0.1:0"), "state-token")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state-token&error=access_denied", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		result := <-handler.Result()
		if !errors.Is(result.Error(), shared.ErrAuthCancelled) {
			t.Errorf("expected ErrAuthCancelled, got %v", result.Error())
		}
	})

	t.Run("ExchangeFailure", func(t *testing.T) {
		tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error": "invalid_grant"}`)
		}))
		defer tokenSrv.Close()

		handler := NewOAuthHandler(newCallbackConfig(tokenSrv.URL), "state-token")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state-token&code=bad-code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		result := <-handler.Result()
		if !errors.Is(result.Error(), shared.ErrTokenExchange) {
			t.Errorf("expected ErrTokenExchange, got %v", result.Error())
		}
	})

	t.Run("SecondCallbackRejected", func(t *testing.T) {
		tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token": "granted", "token_type": "Bearer"}`)
		}))
		defer tokenSrv.Close()

		handler := NewOAuthHandler(newCallbackConfig(tokenSrv.URL), "state-token")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?state=state-token&code=c1", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?state=state-token&code=c2", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("replayed callback should be rejected, got %d", second.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("MethodFiltering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodPost, "/only-post", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/only-post", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-post", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("MiddlewareOrder", func(t *testing.T) {
		router := NewBasicRouter()

		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}
		router.Use(mw("first"), mw("second"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("middleware should run in registration order, got %v", order)
		}
	})
}
