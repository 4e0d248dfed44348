package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/lectern-app/lectern/internal/models"
)

// CaptureStore holds in-flight capture sessions in memory. Sessions are
// transient: they live only until a lecture is generated from them or the
// process exits.
type CaptureStore struct {
	sessions map[string]*models.CaptureSession
	mu       sync.RWMutex
}

func NewCaptureStore() *CaptureStore {
	return &CaptureStore{
		sessions: make(map[string]*models.CaptureSession),
	}
}

func (s *CaptureStore) Get(sessionID string) (*models.CaptureSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *CaptureStore) Set(sessionID string, session *models.CaptureSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

func (s *CaptureStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// AddPage appends a page to the session, keeping submission order. Page
// ids are content hashes, so uploading the same photo twice would collide;
// duplicates get an ordinal suffix to keep every page individually
// removable. The stored page is returned with its final id.
func (s *CaptureStore) AddPage(sessionID string, page models.CapturePage) (models.CapturePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return models.CapturePage{}, fmt.Errorf("capture session %s not found", sessionID)
	}

	id := page.ID
	for n := 2; hasPage(session, id); n++ {
		id = fmt.Sprintf("%s_%d", page.ID, n)
	}
	page.ID = id

	session.Pages = append(session.Pages, page)
	return page, nil
}

func hasPage(session *models.CaptureSession, pageID string) bool {
	for _, page := range session.Pages {
		if page.ID == pageID {
			return true
		}
	}
	return false
}

// RemovePage removes one page by id prior to submission.
func (s *CaptureStore) RemovePage(sessionID, pageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return fmt.Errorf("capture session %s not found", sessionID)
	}

	for i, page := range session.Pages {
		if page.ID == pageID {
			session.Pages = append(session.Pages[:i], session.Pages[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("page %s not found in session %s", pageID, sessionID)
}

// NewSession creates and stores an empty capture session for the user.
func (s *CaptureStore) NewSession(sessionID, userID string) *models.CaptureSession {
	session := &models.CaptureSession{
		ID:        sessionID,
		UserID:    userID,
		Pages:     []models.CapturePage{},
		CreatedAt: time.Now(),
	}
	s.Set(sessionID, session)
	return session
}
