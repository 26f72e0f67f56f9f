package cache

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vidlens/vidlens/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS videos (
    video_id    TEXT PRIMARY KEY,
    video_title TEXT
);
CREATE TABLE IF NOT EXISTS comments (
    comment_id TEXT PRIMARY KEY,
    video_id   TEXT,
    text       TEXT,
    author     TEXT,
    timestamp  TEXT,
    FOREIGN KEY (video_id) REFERENCES videos (video_id)
);
CREATE INDEX IF NOT EXISTS idx_comments_video_id ON comments (video_id);
`

// Store is the local comment cache keyed by video id. Writes use
// INSERT OR IGNORE, so re-caching the same video under concurrent
// requests is safe: the stored rows are immutable once captured.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the cached CommentSet for videoID. The second return value
// is false when the video has never been cached.
func (s *Store) Load(ctx context.Context, videoID string) (models.CommentSet, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT comment_id, text, author, timestamp
		 FROM comments WHERE video_id = ? ORDER BY rowid`, videoID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cached comments: %w", err)
	}
	defer rows.Close()

	var comments models.CommentSet
	for rows.Next() {
		c := models.Comment{VideoID: videoID}
		if err := rows.Scan(&c.ID, &c.Text, &c.Author, &c.Timestamp); err != nil {
			return nil, false, fmt.Errorf("failed to scan cached comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	if len(comments) == 0 {
		return nil, false, nil
	}

	slog.Info("[Cache] Loaded comments from cache",
		slog.String("video_id", videoID),
		slog.Int("count", len(comments)))
	return comments, true, nil
}

// StoreComments caches a fetched CommentSet. Already-present rows are left
// untouched.
func (s *Store) StoreComments(ctx context.Context, videoID, videoTitle string, comments models.CommentSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO videos (video_id, video_title) VALUES (?, ?)`,
		videoID, videoTitle); err != nil {
		return fmt.Errorf("failed to cache video row: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO comments (comment_id, video_id, text, author, timestamp)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare comment insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range comments {
		if _, err := stmt.ExecContext(ctx, c.ID, videoID, c.Text, c.Author, c.Timestamp); err != nil {
			return fmt.Errorf("failed to cache comment %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache transaction: %w", err)
	}

	slog.Info("[Cache] Stored comments",
		slog.String("video_id", videoID),
		slog.Int("count", len(comments)))
	return nil
}
