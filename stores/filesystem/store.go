package filesystem

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"textshelf/core"

	"github.com/sirupsen/logrus"
)

type fsStore struct {
	mu       sync.Mutex
	textsDir string
	sessDir  string
}

type sessionRecord struct {
	ID          string `json:"id"`
	ViewedPages int    `json:"viewed_pages"`
}

// NewStore creates a filesystem-based store with one directory per store
// instance: texts/ keyed by title, sessions/ keyed by session id. Every
// mutation is synced to disk before the call returns.
func NewStore(basePath string) *fsStore {
	textsDir := filepath.Join(basePath, "texts")
	sessDir := filepath.Join(basePath, "sessions")
	for _, dir := range []string{textsDir, sessDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("failed to create storage directory: %v", err)
		}
	}
	return &fsStore{textsDir: textsDir, sessDir: sessDir}
}

// Titles and session ids are request input, so both are hex-encoded into
// path-safe filenames before touching the filesystem.
func (s *fsStore) textPath(title string) string {
	return filepath.Join(s.textsDir, hex.EncodeToString([]byte(title)))
}

func (s *fsStore) sessionPath(id string) string {
	return filepath.Join(s.sessDir, hex.EncodeToString([]byte(id)))
}

func (s *fsStore) FindByTitle(ctx context.Context, title string) (*core.Text, error) {
	log := logrus.WithField("title", title)

	s.mu.Lock()
	data, err := os.ReadFile(s.textPath(title))
	s.mu.Unlock()

	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Text with specified title not found")
			return nil, core.ErrTextNotFound
		}
		log.WithError(err).Error("Failed to retrieve text")
		return nil, fmt.Errorf("read text %q: %w", title, err)
	}

	log.Debug("Text retrieved successfully")
	return &core.Text{Title: title, Content: string(data)}, nil
}

func (s *fsStore) ListAll(ctx context.Context) ([]core.Text, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.textsDir)
	if err != nil {
		logrus.WithError(err).Error("Failed to read texts directory")
		return nil, fmt.Errorf("list texts: %w", err)
	}

	texts := make([]core.Text, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		title, err := hex.DecodeString(entry.Name())
		if err != nil {
			logrus.WithField("file", entry.Name()).Warn("Skipping file with undecodable name")
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.textsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read text file %s: %w", entry.Name(), err)
		}
		texts = append(texts, core.Text{Title: string(title), Content: string(data)})
	}

	sort.Slice(texts, func(i, j int) bool {
		return texts[i].Title < texts[j].Title
	})

	return texts, nil
}

func (s *fsStore) Insert(ctx context.Context, text *core.Text) error {
	log := logrus.WithFields(logrus.Fields{
		"title":          text.Title,
		"content_length": len(text.Content),
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	// O_EXCL makes create-if-absent atomic at the filesystem level.
	f, err := os.OpenFile(s.textPath(text.Title), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			log.Warn("Title already taken")
			return core.ErrTitleExists
		}
		log.WithError(err).Error("Failed to create text")
		return fmt.Errorf("create text %q: %w", text.Title, err)
	}
	defer f.Close()

	if _, err := f.WriteString(text.Content); err != nil {
		return fmt.Errorf("write text %q: %w", text.Title, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync text %q: %w", text.Title, err)
	}

	log.Info("Text created successfully")
	return nil
}

func (s *fsStore) Delete(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.textPath(title)); err != nil {
		if os.IsNotExist(err) {
			return core.ErrTextNotFound
		}
		return fmt.Errorf("delete text %q: %w", title, err)
	}

	logrus.WithField("title", title).Info("Text deleted")
	return nil
}

func (s *fsStore) FindSession(ctx context.Context, id string) (*core.Session, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.sessionPath(id))
	s.mu.Unlock()

	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session %s: %w", id, err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &core.Session{ID: rec.ID, ViewedPages: rec.ViewedPages}, nil
}

func (s *fsStore) SaveSession(ctx context.Context, session *core.Session) error {
	data, err := json.Marshal(sessionRecord{
		ID:          session.ID,
		ViewedPages: session.ViewedPages,
	})
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.sessionPath(session.ID), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open session %s: %w", session.ID, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write session %s: %w", session.ID, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync session %s: %w", session.ID, err)
	}

	logrus.WithFields(logrus.Fields{
		"session_id":   session.ID,
		"viewed_pages": session.ViewedPages,
	}).Debug("Session saved")
	return nil
}

func (s *fsStore) Close() error {
	return nil
}
