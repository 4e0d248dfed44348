package models

import "time"

// Lecture is one capture session's generated notes and quiz. Lectures are
// immutable after creation; the only write paths are Create and Delete.
type Lecture struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Title     string         `json:"title"`
	Subject   string         `json:"subject"`
	Summary   string         `json:"summary"`
	KeyPoints []string       `json:"keyPoints"`
	ImageURL  string         `json:"imageUrl"`
	ImageURLs []string       `json:"imageUrls,omitempty"`
	Quiz      []QuizQuestion `json:"quiz"`
	CreatedAt time.Time      `json:"createdAt"`
}

// QuizQuestion is a four-option multiple choice question. CorrectAnswer
// indexes into Options and is always in 0..3.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// GeneratedNotes is the structured payload the model is asked to return.
type GeneratedNotes struct {
	Title     string         `json:"title"`
	Subject   string         `json:"subject"`
	Summary   string         `json:"summary"`
	KeyPoints []string       `json:"keyPoints"`
	Quiz      []QuizQuestion `json:"quiz"`
}

// CaptureSession accumulates pages before a lecture is generated
type CaptureSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	Pages     []CapturePage `json:"pages"`
	CreatedAt time.Time     `json:"createdAt"`
}

// CapturePage is one captured image within a multi-page submission.
// Original holds the bytes as uploaded; DataURL is the compressed JPEG
// preview that is also what gets sent to the model.
type CapturePage struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Original []byte `json:"-"`
	DataURL  string `json:"dataUrl"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}
