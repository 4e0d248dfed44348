package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lectern-app/lectern/internal/models"
	"github.com/lectern-app/lectern/internal/notegen"
	"github.com/lectern-app/lectern/internal/storage"
)

type Handler struct {
	captureStore *storage.CaptureStore
	lectureStore *storage.LectureStore
	objectStore  *storage.ObjectStore
	notes        *notegen.Service
}

func New(captures *storage.CaptureStore, lectures *storage.LectureStore, objects *storage.ObjectStore, notes *notegen.Service) *Handler {
	return &Handler{
		captureStore: captures,
		lectureStore: lectures,
		objectStore:  objects,
		notes:        notes,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Identity comes from the upstream auth proxy; the service itself performs
// no authentication.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		h.writeError(w, "Missing X-User-ID header", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID, userID string) (*models.CaptureSession, bool) {
	session, exists := h.captureStore.Get(sessionID)
	if !exists || session.UserID != userID {
		h.writeError(w, "Capture session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}
