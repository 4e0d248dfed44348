package notegen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lectern-app/lectern/internal/providers"
)

// stubProvider records every call and replies from a per-model script.
type stubProvider struct {
	calls     []providers.Config
	responses map[string]string
	errs      map[string]error
}

func (s *stubProvider) GenerateText(_ context.Context, config providers.Config) (string, error) {
	s.calls = append(s.calls, config)
	if err, ok := s.errs[config.Model]; ok {
		return "", err
	}
	if resp, ok := s.responses[config.Model]; ok {
		return resp, nil
	}
	return "", fmt.Errorf("no script for model %s", config.Model)
}

func newService(provider providers.Provider, models ...string) *Service {
	return NewService(Config{APIKey: "test-key", Models: models}, provider)
}

func TestGenerateFirstModelWins(t *testing.T) {
	stub := &stubProvider{responses: map[string]string{"fast": validNotesJSON}}
	svc := newService(stub, "fast", "smart", "legacy")

	notes, err := svc.Generate(context.Background(), []string{"data:image/jpeg;base64,aGVsbG8="})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if notes.Title != "Thermodynamics" {
		t.Errorf("Unexpected title %q", notes.Title)
	}
	if len(stub.calls) != 1 {
		t.Fatalf("Expected exactly 1 model call, got %d", len(stub.calls))
	}
	if stub.calls[0].Model != "fast" {
		t.Errorf("Expected first model tried, got %s", stub.calls[0].Model)
	}
	if stub.calls[0].Images[0] != "aGVsbG8=" {
		t.Errorf("Expected data URL prefix stripped, got %q", stub.calls[0].Images[0])
	}
}

func TestGenerateFallsThroughInOrder(t *testing.T) {
	stub := &stubProvider{
		errs:      map[string]error{"fast": errors.New("quota exceeded")},
		responses: map[string]string{"smart": "not json at all", "legacy": validNotesJSON},
	}
	svc := newService(stub, "fast", "smart", "legacy")

	notes, err := svc.Generate(context.Background(), []string{"aGVsbG8="})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if notes.Subject != "Physics" {
		t.Errorf("Unexpected subject %q", notes.Subject)
	}

	want := []string{"fast", "smart", "legacy"}
	if len(stub.calls) != len(want) {
		t.Fatalf("Expected %d calls, got %d", len(want), len(stub.calls))
	}
	for i, model := range want {
		if stub.calls[i].Model != model {
			t.Errorf("Call %d: expected model %s, got %s", i, model, stub.calls[i].Model)
		}
	}
}

func TestGenerateExhaustionCarriesLastError(t *testing.T) {
	stub := &stubProvider{
		errs: map[string]error{
			"fast":       errors.New("first failure"),
			"legacy":     errors.New("the final failure"),
			"gemini-pro": errors.New("service unavailable"),
		},
	}
	svc := newService(stub, "fast", "legacy")

	_, err := svc.Generate(context.Background(), []string{"aGVsbG8="})
	if err == nil {
		t.Fatal("Expected exhaustion error")
	}

	var exhausted *ExhaustionError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected ExhaustionError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "the final failure") {
		t.Errorf("Exhaustion message should contain last error, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "service unavailable") {
		t.Errorf("Exhaustion message should contain diagnostic outcome, got %q", err.Error())
	}

	// Two fallback attempts plus one diagnostic probe
	if len(stub.calls) != 3 {
		t.Fatalf("Expected 3 calls, got %d", len(stub.calls))
	}
	if stub.calls[2].Model != "gemini-pro" {
		t.Errorf("Expected diagnostic probe against gemini-pro, got %s", stub.calls[2].Model)
	}
	if stub.calls[2].Prompt != "test" {
		t.Errorf("Expected diagnostic prompt \"test\", got %q", stub.calls[2].Prompt)
	}
}

func TestGenerateDiagnosticDetectsInvalidKey(t *testing.T) {
	stub := &stubProvider{
		errs: map[string]error{
			"fast":       errors.New("boom"),
			"gemini-pro": errors.New("400: API key not valid. Please pass a valid API key."),
		},
	}
	svc := newService(stub, "fast")

	_, err := svc.Generate(context.Background(), []string{"aGVsbG8="})
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("Expected ErrInvalidCredential, got %v", err)
	}
}

func TestGenerateMissingCredentialSkipsNetwork(t *testing.T) {
	stub := &stubProvider{}
	svc := NewService(Config{APIKey: ""}, stub)

	_, err := svc.Generate(context.Background(), []string{"aGVsbG8="})
	if !errors.Is(err, providers.ErrMissingCredential) {
		t.Fatalf("Expected ErrMissingCredential, got %v", err)
	}
	if len(stub.calls) != 0 {
		t.Errorf("Expected zero provider calls, got %d", len(stub.calls))
	}
}

func TestGenerateRejectsEmptyImageList(t *testing.T) {
	svc := newService(&stubProvider{}, "fast")

	if _, err := svc.Generate(context.Background(), nil); err == nil {
		t.Error("Expected error for empty image list")
	}
}

func TestGenerateMalformedOutputTreatedAsTransient(t *testing.T) {
	stub := &stubProvider{
		responses: map[string]string{
			"fast":  "```json\n{broken",
			"smart": "```json\n" + validNotesJSON + "\n```",
		},
	}
	svc := newService(stub, "fast", "smart")

	notes, err := svc.Generate(context.Background(), []string{"aGVsbG8="})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(notes.Quiz) != 1 {
		t.Errorf("Expected parsed quiz, got %+v", notes.Quiz)
	}
	if len(stub.calls) != 2 {
		t.Errorf("Expected 2 calls, got %d", len(stub.calls))
	}
}

func TestDefaultModelOrder(t *testing.T) {
	svc := NewService(Config{APIKey: "k"}, &stubProvider{})

	want := []string{"gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-pro"}
	if len(svc.cfg.Models) != len(want) {
		t.Fatalf("Expected %d default models, got %d", len(want), len(svc.cfg.Models))
	}
	for i, m := range want {
		if svc.cfg.Models[i] != m {
			t.Errorf("Default model %d: expected %s, got %s", i, m, svc.cfg.Models[i])
		}
	}
}
