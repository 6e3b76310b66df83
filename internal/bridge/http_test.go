package bridge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMessageHandler(t *testing.T) {
	t.Run("DispatchesRequest", func(t *testing.T) {
		f := newFixture()
		f.auth.signedIn = true
		handler := NewMessageHandler(f.handler)

		req := httptest.NewRequest(http.MethodPost, "/api/message", strings.NewReader(`{"action": "get-auth-status"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp Response
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.Success || resp.SignedIn == nil || !*resp.SignedIn {
			t.Errorf("expected signed-in response, got %+v", resp)
		}
	})

	t.Run("RejectsNonPost", func(t *testing.T) {
		handler := NewMessageHandler(newFixture().handler)

		req := httptest.NewRequest(http.MethodGet, "/api/message", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}

		var resp Response
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("body should still carry the uniform shape: %v", err)
		}
		if resp.Success {
			t.Error("rejected request should not report success")
		}
	})

	t.Run("MalformedBodyFailsUniformly", func(t *testing.T) {
		handler := NewMessageHandler(newFixture().handler)

		req := httptest.NewRequest(http.MethodPost, "/api/message", strings.NewReader(`{broken`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		var resp Response
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Success || resp.Error == "" {
			t.Errorf("malformed payload must fail with the uniform shape, got %+v", resp)
		}
	})
}
