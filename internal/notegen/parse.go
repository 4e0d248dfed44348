package notegen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lectern-app/lectern/internal/models"
)

// MalformedOutputError reports model output that did not parse as JSON
// after fence stripping. Raw is kept for logging only and must never be
// returned to the user.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("model output is not valid JSON: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}

// stripFences removes markdown code fence markers the model sometimes
// wraps its JSON in, despite the prompt asking it not to.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// parseNotes strips known wrapper markers and parses the remainder as a
// GeneratedNotes object, classifying any failure as malformed output.
func parseNotes(text string) (*models.GeneratedNotes, error) {
	clean := stripFences(text)

	var notes models.GeneratedNotes
	if err := json.Unmarshal([]byte(clean), &notes); err != nil {
		return nil, &MalformedOutputError{Raw: text, Err: err}
	}
	return &notes, nil
}
