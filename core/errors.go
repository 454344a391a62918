package core

import "errors"

var (
	// ErrTextNotFound is returned when no text is stored under a title.
	ErrTextNotFound = errors.New("text not found")

	// ErrTitleExists is returned by Insert when the title is already taken.
	ErrTitleExists = errors.New("title already exists")

	// ErrSessionNotFound is returned when a session id is unknown.
	ErrSessionNotFound = errors.New("session not found")
)
