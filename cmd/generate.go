package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lectern-app/lectern/internal/gemini"
	"github.com/lectern-app/lectern/internal/imaging"
	"github.com/lectern-app/lectern/internal/models"
	"github.com/lectern-app/lectern/internal/notegen"
	"github.com/lectern-app/lectern/internal/storage"
)

func newGenerateCmd() *cobra.Command {
	var dataDir string
	var userID string
	var save bool

	cmd := &cobra.Command{
		Use:   "generate <image> [image...]",
		Short: "Generate lecture notes from local image files",
		Long: `Runs the capture pipeline against local image files: each image is
compressed, the set is sent through the model fallback list, and the
structured notes are printed as JSON. With --save the lecture is also
persisted to the data directory, images included, exactly as the API would.`,
		Example: `  # Notes from a single whiteboard photo
  lectern generate board.jpg

  # Multi-page lecture, persisted
  lectern generate page1.jpg page2.jpg --save --user alice`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := os.Getenv("GEMINI_API_KEY")

			notes := notegen.NewService(notegen.Config{
				APIKey: apiKey,
				Models: modelFallbackList(),
			}, gemini.New(apiKey))

			var dataURLs []string
			var originals [][]byte
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read image %s: %w", path, err)
				}
				compressed, err := imaging.Compress(data)
				if err != nil {
					return fmt.Errorf("compress image %s: %w", path, err)
				}
				slog.Info("Compressed page", "path", path, "width", compressed.Width, "height", compressed.Height)
				dataURLs = append(dataURLs, compressed.DataURL())
				originals = append(originals, data)
			}

			if !save {
				generated, err := notes.Generate(cmd.Context(), dataURLs)
				if err != nil {
					return err
				}
				return printJSON(generated)
			}

			objectStore, err := storage.NewObjectStore(filepath.Join(dataDir, "media"), "/static/media")
			if err != nil {
				return err
			}
			lectureStore, err := storage.OpenLectureStore(filepath.Join(dataDir, "lectures.db"))
			if err != nil {
				return err
			}
			defer func() { _ = lectureStore.Close() }()

			lecture, err := saveLecture(cmd.Context(), notes, objectStore, lectureStore, userID, args, originals, dataURLs)
			if err != nil {
				return err
			}

			slog.Info("Lecture saved", "lecture_id", lecture.ID, "pages", len(lecture.ImageURLs))
			return printJSON(lecture)
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "Directory for the lecture database and stored images")
	cmd.Flags().StringVar(&userID, "user", "cli", "User id to attribute the lecture to")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the lecture instead of only printing it")

	return cmd
}

// saveLecture persists a lecture the same way the API pipeline does: the
// originals are stored first, so storage problems abort before any model
// call, and the lecture row is written in a single create.
func saveLecture(ctx context.Context, notes *notegen.Service, objectStore *storage.ObjectStore, lectureStore *storage.LectureStore, userID string, paths []string, originals [][]byte, dataURLs []string) (*models.Lecture, error) {
	imageURLs := make([]string, 0, len(originals))
	for i, data := range originals {
		url, err := objectStore.Store(data, userID, filepath.Base(paths[i]))
		if err != nil {
			return nil, err
		}
		imageURLs = append(imageURLs, url)
	}

	generated, err := notes.Generate(ctx, dataURLs)
	if err != nil {
		return nil, err
	}

	return lectureStore.Create(ctx, &models.Lecture{
		UserID:    userID,
		Title:     generated.Title,
		Subject:   generated.Subject,
		Summary:   generated.Summary,
		KeyPoints: generated.KeyPoints,
		ImageURLs: imageURLs,
		Quiz:      generated.Quiz,
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
