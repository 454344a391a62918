package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"textshelf/core"
)

func TestNewStore_CreatesDirectories(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "nested", "data")
	store := NewStore(tempDir)

	if store == nil {
		t.Fatal("NewStore() returned nil")
	}
	for _, sub := range []string{"texts", "sessions"} {
		if _, err := os.Stat(filepath.Join(tempDir, sub)); os.IsNotExist(err) {
			t.Errorf("NewStore() did not create %s directory", sub)
		}
	}
}

func TestInsert_PersistsAcrossReopen(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	store := NewStore(tempDir)
	if err := store.Insert(ctx, &core.Text{Title: "Foo", Content: "Bar"}); err != nil {
		t.Fatalf("Insert() returned error: %v", err)
	}

	reopened := NewStore(tempDir)
	text, err := reopened.FindByTitle(ctx, "Foo")
	if err != nil {
		t.Fatalf("FindByTitle() after reopen returned error: %v", err)
	}
	if text.Content != "Bar" {
		t.Errorf("Content mismatch: got %q, want %q", text.Content, "Bar")
	}
}

func TestInsert_DuplicateTitle(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx := context.Background()

	if err := store.Insert(ctx, &core.Text{Title: "Foo", Content: "original"}); err != nil {
		t.Fatalf("first Insert() returned error: %v", err)
	}

	err := store.Insert(ctx, &core.Text{Title: "Foo", Content: "overwritten"})
	if !errors.Is(err, core.ErrTitleExists) {
		t.Fatalf("second Insert() error = %v, want ErrTitleExists", err)
	}

	text, err := store.FindByTitle(ctx, "Foo")
	if err != nil {
		t.Fatalf("FindByTitle() returned error: %v", err)
	}
	if text.Content != "original" {
		t.Errorf("Content after failed insert: got %q, want %q", text.Content, "original")
	}
}

func TestInsert_PathUnsafeTitle(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx := context.Background()

	title := "../weird/..\\title with spaces?"
	if err := store.Insert(ctx, &core.Text{Title: title, Content: "safe"}); err != nil {
		t.Fatalf("Insert() with path-unsafe title returned error: %v", err)
	}

	text, err := store.FindByTitle(ctx, title)
	if err != nil {
		t.Fatalf("FindByTitle() returned error: %v", err)
	}
	if text.Content != "safe" {
		t.Errorf("Content mismatch: got %q, want %q", text.Content, "safe")
	}
}

func TestFindByTitle_NotFound(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.FindByTitle(context.Background(), "missing")
	if !errors.Is(err, core.ErrTextNotFound) {
		t.Errorf("FindByTitle() error = %v, want ErrTextNotFound", err)
	}
}

func TestListAll_SortedByTitle(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx := context.Background()

	for _, title := range []string{"bravo", "alpha"} {
		if err := store.Insert(ctx, &core.Text{Title: title, Content: "x"}); err != nil {
			t.Fatalf("Insert(%q) returned error: %v", title, err)
		}
	}

	texts, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() returned error: %v", err)
	}
	if len(texts) != 2 || texts[0].Title != "alpha" || texts[1].Title != "bravo" {
		t.Errorf("ListAll() = %v, want alpha then bravo", texts)
	}
}

func TestDelete_RemovesFile(t *testing.T) {
	store := NewStore(t.TempDir())
	ctx := context.Background()

	if err := store.Insert(ctx, &core.Text{Title: "Foo", Content: "Bar"}); err != nil {
		t.Fatalf("Insert() returned error: %v", err)
	}
	if err := store.Delete(ctx, "Foo"); err != nil {
		t.Fatalf("Delete() returned error: %v", err)
	}
	if _, err := store.FindByTitle(ctx, "Foo"); !errors.Is(err, core.ErrTextNotFound) {
		t.Errorf("FindByTitle() after delete error = %v, want ErrTextNotFound", err)
	}

	if err := store.Delete(ctx, "Foo"); !errors.Is(err, core.ErrTextNotFound) {
		t.Errorf("Delete() of absent text error = %v, want ErrTextNotFound", err)
	}
}

func TestSaveSession_PersistsAcrossReopen(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	store := NewStore(tempDir)
	session := core.NewSession()
	session.ViewedPages = 3
	if err := store.SaveSession(ctx, session); err != nil {
		t.Fatalf("SaveSession() returned error: %v", err)
	}

	reopened := NewStore(tempDir)
	got, err := reopened.FindSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("FindSession() after reopen returned error: %v", err)
	}
	if got.ID != session.ID || got.ViewedPages != 3 {
		t.Errorf("FindSession() = %+v, want id %s with 3 viewed pages", got, session.ID)
	}
}

func TestFindSession_PathUnsafeID(t *testing.T) {
	tempDir := t.TempDir()
	store := NewStore(tempDir)
	ctx := context.Background()

	// A file outside sessions/ must stay unreachable through a crafted
	// cookie value.
	planted := filepath.Join(tempDir, "secret.json")
	if err := os.WriteFile(planted, []byte(`{"id":"evil","viewed_pages":99}`), 0644); err != nil {
		t.Fatalf("failed to plant file: %v", err)
	}

	_, err := store.FindSession(ctx, "../secret.json")
	if !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("FindSession() with traversal id error = %v, want ErrSessionNotFound", err)
	}
}

func TestSaveSession_PathUnsafeIDStaysInSessionsDir(t *testing.T) {
	tempDir := t.TempDir()
	store := NewStore(tempDir)
	ctx := context.Background()

	session := &core.Session{ID: "../escape", ViewedPages: 1}
	if err := store.SaveSession(ctx, session); err != nil {
		t.Fatalf("SaveSession() returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tempDir, "escape")); !os.IsNotExist(err) {
		t.Error("session write escaped the sessions directory")
	}

	got, err := store.FindSession(ctx, "../escape")
	if err != nil {
		t.Fatalf("FindSession() returned error: %v", err)
	}
	if got.ViewedPages != 1 {
		t.Errorf("ViewedPages = %d, want 1", got.ViewedPages)
	}
}

func TestFindSession_NotFound(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.FindSession(context.Background(), "nope")
	if !errors.Is(err, core.ErrSessionNotFound) {
		t.Errorf("FindSession() error = %v, want ErrSessionNotFound", err)
	}
}
