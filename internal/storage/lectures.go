package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lectern-app/lectern/internal/models"
)

// ErrLectureNotFound is returned for lookups of unknown or deleted lectures.
var ErrLectureNotFound = errors.New("lecture not found")

// createdAtLayout pads nanoseconds to a fixed width so the TEXT column
// sorts lexicographically in timestamp order. RFC3339Nano would trim
// trailing zeros and misorder sub-second neighbors.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// LectureStore manages lecture persistence backed by SQLite. Lectures are
// immutable: there is no update statement, only Create and Delete.
type LectureStore struct {
	db *sql.DB
}

// OpenLectureStore connects to the lecture database at path and applies
// migrations.
func OpenLectureStore(path string) (*LectureStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &LectureStore{db: db}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *LectureStore) applyMigrations(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS lectures (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            title TEXT NOT NULL,
            subject TEXT NOT NULL,
            summary TEXT NOT NULL,
            key_points_json TEXT NOT NULL,
            image_urls_json TEXT NOT NULL,
            quiz_json TEXT NOT NULL,
            created_at TEXT NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_lectures_user_created
            ON lectures(user_id, created_at DESC);
    `)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *LectureStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create persists a new lecture, assigning its id and creation timestamp.
// The input's ID and CreatedAt fields are ignored.
func (s *LectureStore) Create(ctx context.Context, lecture *models.Lecture) (*models.Lecture, error) {
	id := uuid.NewString()
	createdAt := time.Now().UTC()

	keyPoints, err := json.Marshal(lecture.KeyPoints)
	if err != nil {
		return nil, fmt.Errorf("marshal key points: %w", err)
	}
	imageURLs, err := json.Marshal(lecture.ImageURLs)
	if err != nil {
		return nil, fmt.Errorf("marshal image urls: %w", err)
	}
	quiz, err := json.Marshal(lecture.Quiz)
	if err != nil {
		return nil, fmt.Errorf("marshal quiz: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO lectures (
            id, user_id, title, subject, summary,
            key_points_json, image_urls_json, quiz_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		lecture.UserID,
		lecture.Title,
		lecture.Subject,
		lecture.Summary,
		string(keyPoints),
		string(imageURLs),
		string(quiz),
		createdAt.Format(createdAtLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert lecture: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns one lecture or ErrLectureNotFound.
func (s *LectureStore) GetByID(ctx context.Context, id string) (*models.Lecture, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, title, subject, summary,
                key_points_json, image_urls_json, quiz_json, created_at
         FROM lectures WHERE id = ?`,
		id,
	)

	lecture, err := scanLecture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLectureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lecture %s: %w", id, err)
	}
	return lecture, nil
}

// ListByUser returns the user's lectures, newest first.
func (s *LectureStore) ListByUser(ctx context.Context, userID string) ([]*models.Lecture, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, user_id, title, subject, summary,
                key_points_json, image_urls_json, quiz_json, created_at
         FROM lectures WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lectures for %s: %w", userID, err)
	}
	defer rows.Close()

	lectures := []*models.Lecture{}
	for rows.Next() {
		lecture, err := scanLecture(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lecture: %w", err)
		}
		lectures = append(lectures, lecture)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lectures: %w", err)
	}

	return lectures, nil
}

// Delete removes a lecture permanently. Deleting an unknown id returns
// ErrLectureNotFound.
func (s *LectureStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lectures WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete lecture %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrLectureNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLecture(row rowScanner) (*models.Lecture, error) {
	var lecture models.Lecture
	var keyPoints, imageURLs, quiz, createdAt string

	err := row.Scan(
		&lecture.ID,
		&lecture.UserID,
		&lecture.Title,
		&lecture.Subject,
		&lecture.Summary,
		&keyPoints,
		&imageURLs,
		&quiz,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(keyPoints), &lecture.KeyPoints); err != nil {
		return nil, fmt.Errorf("unmarshal key points: %w", err)
	}
	if err := json.Unmarshal([]byte(imageURLs), &lecture.ImageURLs); err != nil {
		return nil, fmt.Errorf("unmarshal image urls: %w", err)
	}
	if err := json.Unmarshal([]byte(quiz), &lecture.Quiz); err != nil {
		return nil, fmt.Errorf("unmarshal quiz: %w", err)
	}

	if len(lecture.ImageURLs) > 0 {
		lecture.ImageURL = lecture.ImageURLs[0]
	}

	lecture.CreatedAt, err = time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &lecture, nil
}
