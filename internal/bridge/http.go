package bridge

import (
	"encoding/json"
	"net/http"

	"github.com/wardje/tubevault/internal/models"
)

// MessageHandler exposes the message contract over HTTP for local UI
// clients. Implements the server.Handler interface.
type MessageHandler struct {
	handler *Handler
}

// NewMessageHandler wraps a [Handler] for HTTP transport.
func NewMessageHandler(handler *Handler) *MessageHandler {
	return &MessageHandler{handler: handler}
}

// Routes returns the HTTP routes this handler serves.
func (m *MessageHandler) Routes() []string {
	return []string{"/api/message"}
}

// ServeHTTP decodes one request, dispatches it, and writes the uniform
// response shape. Malformed payloads come back as {success: false} too; the
// transport never surfaces a bare HTTP error for core failures.
func (m *MessageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(Response{Success: false, Error: "POST required"})
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		json.NewEncoder(w).Encode(Response{Success: false, Error: "malformed request: " + err.Error()})
		return
	}

	json.NewEncoder(w).Encode(m.handler.Handle(r.Context(), req))
}

func encodeSettings(settings models.Settings) (string, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeSettings(raw string) (models.Settings, error) {
	var settings models.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return models.Settings{}, err
	}
	if _, err := models.ParseSyncFrequency(string(settings.SyncFrequency)); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}
