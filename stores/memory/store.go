package memory

import (
	"context"
	"sort"
	"sync"
	"textshelf/core"

	"github.com/sirupsen/logrus"
)

type store struct {
	mu       sync.RWMutex
	texts    map[string]string
	sessions map[string]core.Session
}

// NewStore creates an in-memory store. Contents are lost on shutdown, so
// it is only the default for local experiments.
func NewStore() *store {
	return &store{
		texts:    make(map[string]string),
		sessions: make(map[string]core.Session),
	}
}

func (s *store) FindByTitle(ctx context.Context, title string) (*core.Text, error) {
	log := logrus.WithField("title", title)

	s.mu.RLock()
	content, ok := s.texts[title]
	s.mu.RUnlock()

	if !ok {
		log.Warn("Text with specified title not found")
		return nil, core.ErrTextNotFound
	}

	log.Debug("Text retrieved successfully")
	return &core.Text{Title: title, Content: content}, nil
}

func (s *store) ListAll(ctx context.Context) ([]core.Text, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	texts := make([]core.Text, 0, len(s.texts))
	for title, content := range s.texts {
		texts = append(texts, core.Text{Title: title, Content: content})
	}

	sort.Slice(texts, func(i, j int) bool {
		return texts[i].Title < texts[j].Title
	})

	return texts, nil
}

func (s *store) Insert(ctx context.Context, text *core.Text) error {
	log := logrus.WithFields(logrus.Fields{
		"title":          text.Title,
		"content_length": len(text.Content),
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.texts[text.Title]; exists {
		log.Warn("Title already taken")
		return core.ErrTitleExists
	}
	s.texts[text.Title] = text.Content

	log.Info("Text created successfully")
	return nil
}

func (s *store) Delete(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.texts[title]; !exists {
		return core.ErrTextNotFound
	}
	delete(s.texts, title)

	logrus.WithField("title", title).Info("Text deleted")
	return nil
}

func (s *store) FindSession(ctx context.Context, id string) (*core.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return &session, nil
}

func (s *store) SaveSession(ctx context.Context, session *core.Session) error {
	s.mu.Lock()
	s.sessions[session.ID] = *session
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"session_id":   session.ID,
		"viewed_pages": session.ViewedPages,
	}).Debug("Session saved")
	return nil
}

func (s *store) Close() error {
	return nil
}
