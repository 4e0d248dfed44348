package notegen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lectern-app/lectern/internal/imaging"
	"github.com/lectern-app/lectern/internal/models"
	"github.com/lectern-app/lectern/internal/providers"
)

// DefaultModels is the fallback list tried in order: the fast tier first,
// then progressively smarter or legacy tiers.
var DefaultModels = []string{"gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-pro"}

// DefaultDiagnosticModel is the baseline model probed once after total
// exhaustion to distinguish credential problems from other failures.
const DefaultDiagnosticModel = "gemini-pro"

// ErrInvalidCredential is returned when the post-exhaustion diagnostic
// probe reports the API key as invalid.
var ErrInvalidCredential = fmt.Errorf("model API credential is invalid")

// ExhaustionError reports that every model in the fallback list failed.
type ExhaustionError struct {
	LastErr    error
	Diagnostic string
}

func (e *ExhaustionError) Error() string {
	last := "unknown"
	if e.LastErr != nil {
		last = e.LastErr.Error()
	}
	return fmt.Sprintf("all models failed, last error: %s, diagnostic: %s", last, e.Diagnostic)
}

func (e *ExhaustionError) Unwrap() error {
	return e.LastErr
}

// Config holds the explicit invocation configuration so tests can inject
// stub providers and model lists.
type Config struct {
	APIKey          string
	Models          []string
	DiagnosticModel string
	Temperature     float64
}

// Service generates structured lecture notes from captured images.
type Service struct {
	cfg      Config
	provider providers.Provider
}

// NewService returns a note generation service backed by the given provider.
func NewService(cfg Config, provider providers.Provider) *Service {
	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels
	}
	if cfg.DiagnosticModel == "" {
		cfg.DiagnosticModel = DefaultDiagnosticModel
	}
	return &Service{cfg: cfg, provider: provider}
}

// Generate runs the model fallback loop over the configured model list and
// returns the first parseable result. Images may be data URLs or raw
// base64; any data-URL prefix is stripped before sending. On total
// exhaustion a single diagnostic probe classifies the failure.
func (s *Service) Generate(ctx context.Context, images []string) (*models.GeneratedNotes, error) {
	if s.cfg.APIKey == "" {
		return nil, providers.ErrMissingCredential
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no images provided")
	}

	payloads := make([]string, len(images))
	for i, img := range images {
		payloads[i] = imaging.StripDataURLPrefix(img)
	}

	var lastErr error
	for _, model := range s.cfg.Models {
		slog.Info("Trying model", "model", model, "images", len(payloads))

		text, err := s.provider.GenerateText(ctx, providers.Config{
			Model:       model,
			Temperature: s.cfg.Temperature,
			Prompt:      lecturePrompt,
			Images:      payloads,
		})
		if err != nil {
			slog.Warn("Model call failed", "model", model, "error", err)
			lastErr = err
			continue
		}

		notes, err := parseNotes(text)
		if err != nil {
			// Raw output is logged for diagnosis but never surfaced.
			slog.Warn("Model returned unparseable output", "model", model, "error", err, "raw", text)
			lastErr = err
			continue
		}

		slog.Info("Generated lecture notes", "model", model, "quiz_questions", len(notes.Quiz))
		return notes, nil
	}

	return nil, s.classifyExhaustion(ctx, lastErr)
}

// classifyExhaustion performs one diagnostic call against the baseline
// model to distinguish an invalid credential from other failures.
func (s *Service) classifyExhaustion(ctx context.Context, lastErr error) error {
	diagnostic := "ok"

	_, err := s.provider.GenerateText(ctx, providers.Config{
		Model:       s.cfg.DiagnosticModel,
		Temperature: s.cfg.Temperature,
		Prompt:      "test",
	})
	if err != nil {
		if strings.Contains(err.Error(), "API key not valid") {
			return ErrInvalidCredential
		}
		diagnostic = err.Error()
	}

	return &ExhaustionError{LastErr: lastErr, Diagnostic: diagnostic}
}
