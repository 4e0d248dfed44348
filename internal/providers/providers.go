package providers

import (
	"context"
	"errors"
)

// ErrMissingCredential is returned before any network call when the
// provider's API credential is absent.
var ErrMissingCredential = errors.New("model API credential is not configured")

// Config represents one generation request against an LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// Images holds raw base64 JPEG payloads attached as inline parts,
	// in page order.
	Images []string
}

// Provider defines the interface for a multimodal LLM provider
type Provider interface {
	GenerateText(ctx context.Context, config Config) (string, error)
}
