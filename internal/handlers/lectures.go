package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lectern-app/lectern/internal/models"
	"github.com/lectern-app/lectern/internal/notegen"
	"github.com/lectern-app/lectern/internal/providers"
	"github.com/lectern-app/lectern/internal/storage"
)

func (h *Handler) HandleLectures(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		lectures, err := h.lectureStore.ListByUser(r.Context(), userID)
		if err != nil {
			h.writeError(w, "Failed to list lectures: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, lectures)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleLectureDetail dispatches /api/lectures/{id}[/quiz/score].
func (h *Handler) HandleLectureDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/lectures/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if parts[0] == "" {
		h.writeError(w, "Lecture id required", http.StatusBadRequest)
		return
	}

	lecture, err := h.lectureStore.GetByID(r.Context(), parts[0])
	if err != nil || lecture.UserID != userID {
		// Foreign lectures look identical to missing ones
		if err == nil || errors.Is(err, storage.ErrLectureNotFound) {
			h.writeError(w, "Lecture not found", http.StatusNotFound)
			return
		}
		h.writeError(w, "Failed to load lecture: "+err.Error(), http.StatusInternalServerError)
		return
	}

	switch {
	case len(parts) == 1 && r.Method == "GET":
		h.writeJSON(w, lecture)
	case len(parts) == 1 && r.Method == "DELETE":
		if err := h.lectureStore.Delete(r.Context(), lecture.ID); err != nil {
			h.writeError(w, "Failed to delete lecture: "+err.Error(), http.StatusInternalServerError)
			return
		}
		slog.Info("Lecture deleted", "lecture_id", lecture.ID, "user_id", userID)
		h.writeJSON(w, map[string]any{"deleted": lecture.ID})
	case len(parts) == 3 && parts[1] == "quiz" && parts[2] == "score" && r.Method == "POST":
		h.handleQuizScore(w, r, lecture)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleQuizScore grades one submission. Scoring is stateless, so a retake
// is just a fresh submission.
func (h *Handler) handleQuizScore(w http.ResponseWriter, r *http.Request, lecture *models.Lecture) {
	var request struct {
		Answers map[string]int `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	answers := make(map[int]int, len(request.Answers))
	for key, selected := range request.Answers {
		idx, err := strconv.Atoi(key)
		if err != nil {
			h.writeError(w, "Invalid question index: "+key, http.StatusBadRequest)
			return
		}
		answers[idx] = selected
	}

	score := models.ScoreQuiz(lecture.Quiz, answers)
	h.writeJSON(w, map[string]any{
		"score": score,
		"total": len(lecture.Quiz),
	})
}

// writeGenerationError maps the note generation error taxonomy onto HTTP
// responses. Raw model output never reaches the client.
func (h *Handler) writeGenerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, providers.ErrMissingCredential):
		h.writeError(w, "Gemini API key is missing, set GEMINI_API_KEY", http.StatusServiceUnavailable)
	case errors.Is(err, notegen.ErrInvalidCredential):
		h.writeError(w, "Gemini API key is invalid, update GEMINI_API_KEY", http.StatusServiceUnavailable)
	default:
		var exhausted *notegen.ExhaustionError
		if errors.As(err, &exhausted) {
			h.writeError(w, "Note generation failed: "+exhausted.Error(), http.StatusBadGateway)
			return
		}
		h.writeError(w, "Note generation failed: "+err.Error(), http.StatusInternalServerError)
	}
}
