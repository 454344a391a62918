package core

import (
	"context"

	"github.com/google/uuid"
)

type (
	// Text is a named document. The title is the primary key and is
	// never reassigned once the text is created.
	Text struct {
		Title   string
		Content string
	}

	// Session tracks how many texts a single visitor has viewed.
	Session struct {
		ID          string
		ViewedPages int
	}

	TextStore interface {
		// FindByTitle returns the stored text, or ErrTextNotFound.
		FindByTitle(ctx context.Context, title string) (*Text, error)
		// ListAll returns every stored text ordered by title.
		ListAll(ctx context.Context) ([]Text, error)
		// Insert stores a new text. It fails with ErrTitleExists when the
		// title is already taken and must never overwrite existing content.
		Insert(ctx context.Context, text *Text) error
		// Delete removes a text, or returns ErrTextNotFound.
		Delete(ctx context.Context, title string) error
	}

	SessionStore interface {
		// FindSession returns the stored session, or ErrSessionNotFound.
		FindSession(ctx context.Context, id string) (*Session, error)
		// SaveSession writes the full session state, creating or overwriting.
		SaveSession(ctx context.Context, session *Session) error
	}
)

// NewSession returns a fresh session with a random UUIDv4 id and a zero
// view counter.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}
