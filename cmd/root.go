package cmd

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lectern-app/lectern/internal/notegen"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lectern",
		Short: "Turn whiteboard photos into study notes and quizzes",
		Long: `Lectern turns photographed whiteboards and slides into structured study
material: captured pages are sent to a multimodal LLM which extracts a title,
summary, key points, and a multiple choice quiz, persisted per lecture.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

// modelFallbackList returns the configured model fallback order, honoring
// the LECTERN_MODELS override.
func modelFallbackList() []string {
	raw := os.Getenv("LECTERN_MODELS")
	if raw == "" {
		return notegen.DefaultModels
	}

	var models []string
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	if len(models) == 0 {
		return notegen.DefaultModels
	}
	return models
}
