package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lectern-app/lectern/internal/gemini"
	"github.com/lectern-app/lectern/internal/handlers"
	"github.com/lectern-app/lectern/internal/notegen"
	"github.com/lectern-app/lectern/internal/storage"
)

func newServeCmd() *cobra.Command {
	var port string
	var dataDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the lecture capture API server",
		Long: `Starts the Lectern HTTP API on the specified port.

Clients create a capture session, upload photographed pages, and submit the
session for generation; the resulting lecture notes and quiz are persisted
and served back, with images stored under the data directory.`,
		Example: `  # Start server on default port 8888
  lectern serve

  # Custom port and data directory
  lectern serve --port 3000 --data-dir /var/lib/lectern`,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := os.Getenv("GEMINI_API_KEY")
			if apiKey == "" {
				slog.Warn("GEMINI_API_KEY is not set, note generation will fail until it is configured")
			}

			lectureStore, err := storage.OpenLectureStore(filepath.Join(dataDir, "lectures.db"))
			if err != nil {
				return err
			}
			defer func() { _ = lectureStore.Close() }()

			objectStore, err := storage.NewObjectStore(filepath.Join(dataDir, "media"), "/static/media")
			if err != nil {
				return err
			}

			notes := notegen.NewService(notegen.Config{
				APIKey: apiKey,
				Models: modelFallbackList(),
			}, gemini.New(apiKey))

			handler := handlers.New(storage.NewCaptureStore(), lectureStore, objectStore, notes)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/captures", handler.HandleCaptures)
			mux.HandleFunc("/api/captures/", handler.HandleCaptureDetail)
			mux.HandleFunc("/api/lectures", handler.HandleLectures)
			mux.HandleFunc("/api/lectures/", handler.HandleLectureDetail)
			mux.HandleFunc("/", handler.HandleStatic)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Lectern API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "Directory for the lecture database and stored images")

	return cmd
}
