package gemini

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/lectern-app/lectern/internal/providers"
)

// Gemini is a provider for Google Gemini. The API key is supplied at
// construction so callers and tests control the credential explicitly.
type Gemini struct {
	apiKey string
}

// New returns a new Gemini provider
func New(apiKey string) *Gemini {
	return &Gemini{apiKey: apiKey}
}

// GenerateText sends the prompt plus any inline images to Gemini and
// returns the raw response text.
func (g *Gemini) GenerateText(ctx context.Context, config providers.Config) (string, error) {
	if g.apiKey == "" {
		return "", providers.ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))

	parts := make([]genai.Part, 0, len(config.Images)+1)
	parts = append(parts, genai.Text(config.Prompt))
	for i, img := range config.Images {
		data, err := base64.StdEncoding.DecodeString(img)
		if err != nil {
			return "", fmt.Errorf("failed to decode image %d as base64: %w", i, err)
		}
		parts = append(parts, genai.Blob{MIMEType: "image/jpeg", Data: data})
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}
