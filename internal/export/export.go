// Package export dumps the persisted lecture corpus to flat files for
// offline analysis.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/lectern-app/lectern/internal/models"
)

// Row is the flattened per-lecture record written to disk. Quiz questions
// are carried as a JSON column so every format stays tabular.
type Row struct {
	ID        string   `parquet:"id" json:"id" yaml:"id"`
	UserID    string   `parquet:"user_id" json:"user_id" yaml:"user_id"`
	Title     string   `parquet:"title" json:"title" yaml:"title"`
	Subject   string   `parquet:"subject" json:"subject" yaml:"subject"`
	Summary   string   `parquet:"summary" json:"summary" yaml:"summary"`
	KeyPoints []string `parquet:"key_points,list" json:"key_points" yaml:"key_points"`
	ImageURLs []string `parquet:"image_urls,list" json:"image_urls" yaml:"image_urls"`
	QuizJSON  string   `parquet:"quiz_json" json:"quiz_json" yaml:"quiz_json"`
	CreatedAt string   `parquet:"created_at" json:"created_at" yaml:"created_at"`
}

func toRow(lecture *models.Lecture) (Row, error) {
	quiz, err := json.Marshal(lecture.Quiz)
	if err != nil {
		return Row{}, fmt.Errorf("marshal quiz for %s: %w", lecture.ID, err)
	}
	return Row{
		ID:        lecture.ID,
		UserID:    lecture.UserID,
		Title:     lecture.Title,
		Subject:   lecture.Subject,
		Summary:   lecture.Summary,
		KeyPoints: lecture.KeyPoints,
		ImageURLs: lecture.ImageURLs,
		QuizJSON:  string(quiz),
		CreatedAt: lecture.CreatedAt.Format(time.RFC3339Nano),
	}, nil
}

// Write dumps lectures to path in the requested format: parquet, jsonl, or
// yaml (detected from the format argument, not the extension).
func Write(lectures []*models.Lecture, path, format string) error {
	rows := make([]Row, 0, len(lectures))
	for _, lecture := range lectures {
		row, err := toRow(lecture)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	switch strings.ToLower(format) {
	case "parquet":
		return writeParquet(rows, path)
	case "jsonl":
		return writeJSONL(rows, path)
	case "yaml":
		return writeYAML(rows, path)
	default:
		return fmt.Errorf("unsupported format: %s (supported: parquet, jsonl, yaml)", format)
	}
}

func writeParquet(rows []Row, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[Row](file)
	if _, err := writer.Write(rows); err != nil {
		_ = file.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return file.Close()
}

func writeJSONL(rows []Row, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create jsonl file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encode row %s: %w", row.ID, err)
		}
	}
	return w.Flush()
}

func writeYAML(rows []Row, path string) error {
	data, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write yaml file: %w", err)
	}
	return nil
}
