package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"textshelf/core"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

// NewStore creates a SQLite-based store holding both the texts table and
// the sessions table in one database file.
func NewStore(dataSourceName string) *sqliteStore {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}

	// A single connection serializes get-modify-put sequences; the driver
	// is not safe for concurrent writers on one file otherwise.
	db.SetMaxOpenConns(1)

	textsTable := `CREATE TABLE IF NOT EXISTS texts (title TEXT PRIMARY KEY, content TEXT NOT NULL);`
	if _, err = db.Exec(textsTable); err != nil {
		log.Fatalf("failed to create texts table: %v", err)
	}

	sessionsTable := `CREATE TABLE IF NOT EXISTS sessions (id TEXT PRIMARY KEY, viewed_pages INTEGER NOT NULL DEFAULT 0);`
	if _, err = db.Exec(sessionsTable); err != nil {
		log.Fatalf("failed to create sessions table: %v", err)
	}

	return &sqliteStore{db}
}

func (s *sqliteStore) FindByTitle(ctx context.Context, title string) (*core.Text, error) {
	log := logrus.WithField("title", title)
	log.Debug("Retrieving text by title")

	var content string
	err := s.db.QueryRowContext(ctx, "SELECT content FROM texts WHERE title = ?", title).Scan(&content)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Warn("Text with specified title not found")
			return nil, core.ErrTextNotFound
		}
		log.WithError(err).Error("Failed to retrieve text")
		return nil, fmt.Errorf("select text %q: %w", title, err)
	}

	return &core.Text{Title: title, Content: content}, nil
}

func (s *sqliteStore) ListAll(ctx context.Context) ([]core.Text, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT title, content FROM texts ORDER BY title")
	if err != nil {
		logrus.WithError(err).Error("Failed to list texts")
		return nil, fmt.Errorf("list texts: %w", err)
	}
	defer rows.Close()

	var texts []core.Text
	for rows.Next() {
		var t core.Text
		if err := rows.Scan(&t.Title, &t.Content); err != nil {
			return nil, fmt.Errorf("scan text row: %w", err)
		}
		texts = append(texts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate text rows: %w", err)
	}

	return texts, nil
}

func (s *sqliteStore) Insert(ctx context.Context, text *core.Text) error {
	log := logrus.WithFields(logrus.Fields{
		"title":          text.Title,
		"content_length": len(text.Content),
	})

	// Conditional insert in one statement so two concurrent creates of the
	// same title cannot both succeed.
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO texts (title, content) VALUES (?, ?) ON CONFLICT(title) DO NOTHING",
		text.Title, text.Content)
	if err != nil {
		log.WithError(err).Error("Failed to create text")
		return fmt.Errorf("insert text %q: %w", text.Title, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert text %q: %w", text.Title, err)
	}
	if affected == 0 {
		log.Warn("Title already taken")
		return core.ErrTitleExists
	}

	log.Info("Text created successfully")
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, title string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM texts WHERE title = ?", title)
	if err != nil {
		return fmt.Errorf("delete text %q: %w", title, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete text %q: %w", title, err)
	}
	if affected == 0 {
		return core.ErrTextNotFound
	}

	logrus.WithField("title", title).Info("Text deleted")
	return nil
}

func (s *sqliteStore) FindSession(ctx context.Context, id string) (*core.Session, error) {
	var session core.Session
	err := s.db.QueryRowContext(ctx,
		"SELECT id, viewed_pages FROM sessions WHERE id = ?", id).
		Scan(&session.ID, &session.ViewedPages)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrSessionNotFound
		}
		logrus.WithField("session_id", id).WithError(err).Error("Failed to retrieve session")
		return nil, fmt.Errorf("select session %s: %w", id, err)
	}

	return &session, nil
}

func (s *sqliteStore) SaveSession(ctx context.Context, session *core.Session) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, viewed_pages) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET viewed_pages = excluded.viewed_pages",
		session.ID, session.ViewedPages)
	if err != nil {
		logrus.WithField("session_id", session.ID).WithError(err).Error("Failed to save session")
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}

	logrus.WithFields(logrus.Fields{
		"session_id":   session.ID,
		"viewed_pages": session.ViewedPages,
	}).Debug("Session saved")
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
