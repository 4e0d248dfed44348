package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/lectern-app/lectern/internal/imaging"
	"github.com/lectern-app/lectern/internal/models"
	"github.com/lectern-app/lectern/internal/utils"
)

const maxUploadBytes = 10 * 1024 * 1024

func (h *Handler) HandleCaptures(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case "POST":
		session := h.captureStore.NewSession(uuid.NewString(), userID)
		slog.Info("Capture session created", "session_id", session.ID, "user_id", userID)
		h.writeJSON(w, session)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleCaptureDetail dispatches /api/captures/{id}[/pages[/{pageID}]|/generate].
func (h *Handler) HandleCaptureDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/captures/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if parts[0] == "" {
		h.writeError(w, "Capture session id required", http.StatusBadRequest)
		return
	}
	sessionID := parts[0]

	session, ok := h.getSessionOrError(w, sessionID, userID)
	if !ok {
		return
	}

	switch {
	case len(parts) == 1 && r.Method == "GET":
		h.writeJSON(w, session)
	case len(parts) == 1 && r.Method == "DELETE":
		h.captureStore.Delete(sessionID)
		h.writeJSON(w, map[string]any{"deleted": sessionID})
	case len(parts) == 2 && parts[1] == "pages" && r.Method == "POST":
		h.handleAddPage(w, r, sessionID)
	case len(parts) == 3 && parts[1] == "pages" && r.Method == "DELETE":
		h.handleRemovePage(w, sessionID, parts[2])
	case len(parts) == 2 && parts[1] == "generate" && r.Method == "POST":
		h.handleGenerate(w, r, session)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleAddPage(w http.ResponseWriter, r *http.Request, sessionID string) {
	file, header, err := r.FormFile("files")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fileData) >= maxUploadBytes {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	compressed, err := imaging.Compress(fileData)
	if err != nil {
		h.writeError(w, "Unsupported or corrupt image: "+err.Error(), http.StatusBadRequest)
		return
	}

	page := models.CapturePage{
		ID:       utils.CalculateDataMD5(fileData),
		Filename: header.Filename,
		Original: fileData,
		DataURL:  compressed.DataURL(),
		Width:    compressed.Width,
		Height:   compressed.Height,
	}

	page, err = h.captureStore.AddPage(sessionID, page)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	slog.Info("Page added", "session_id", sessionID, "page_id", page.ID,
		"filename", page.Filename, "width", page.Width, "height", page.Height)
	h.writeJSON(w, page)
}

func (h *Handler) handleRemovePage(w http.ResponseWriter, sessionID, pageID string) {
	if err := h.captureStore.RemovePage(sessionID, pageID); err != nil {
		h.writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	h.writeJSON(w, map[string]any{"removed": pageID})
}

// handleGenerate runs the pipeline: upload originals, generate notes, then
// one lecture write. Uploads are sequential and abort before any model
// call; the lecture is written only after both stages succeed.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request, session *models.CaptureSession) {
	if len(session.Pages) == 0 {
		h.writeError(w, "Capture session has no pages", http.StatusBadRequest)
		return
	}

	imageURLs := make([]string, 0, len(session.Pages))
	dataURLs := make([]string, 0, len(session.Pages))
	for _, page := range session.Pages {
		url, err := h.objectStore.Store(page.Original, session.UserID, page.Filename)
		if err != nil {
			h.writeError(w, "Image upload failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
		imageURLs = append(imageURLs, url)
		dataURLs = append(dataURLs, page.DataURL)
	}

	notes, err := h.notes.Generate(r.Context(), dataURLs)
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}

	lecture, err := h.lectureStore.Create(r.Context(), &models.Lecture{
		UserID:    session.UserID,
		Title:     notes.Title,
		Subject:   notes.Subject,
		Summary:   notes.Summary,
		KeyPoints: notes.KeyPoints,
		ImageURLs: imageURLs,
		Quiz:      notes.Quiz,
	})
	if err != nil {
		h.writeError(w, "Failed to save lecture, check database file permissions: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.captureStore.Delete(session.ID)
	slog.Info("Lecture generated", "lecture_id", lecture.ID, "user_id", session.UserID,
		"pages", len(imageURLs), "quiz_questions", len(lecture.Quiz))
	h.writeJSON(w, lecture)
}
