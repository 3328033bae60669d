package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"personify/internal/protocol"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "user-1", "a@b.com")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected a generated session ID")
	}
	if session.Status != StatusOngoing {
		t.Errorf("new session status = %s, want %s", session.Status, StatusOngoing)
	}

	loaded, err := s.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if loaded.UserEmail != "a@b.com" || loaded.UserID != "user-1" {
		t.Errorf("loaded session mismatch: %+v", loaded)
	}

	if err := s.UpdateSessionStatus(ctx, session.ID, StatusCompleted); err != nil {
		t.Fatalf("UpdateSessionStatus failed: %v", err)
	}
	loaded, err = s.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if loaded.Status != StatusCompleted {
		t.Errorf("status = %s, want %s", loaded.Status, StatusCompleted)
	}
	if loaded.UpdatedAt.Before(loaded.CreatedAt) {
		t.Error("updated_at must not precede created_at")
	}
}

func TestGetSessionNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetSession(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateSessionStatus(context.Background(), "missing", StatusError); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindOrCreateOngoing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.FindOrCreateOngoing(ctx, "user-1", "a@b.com")
	if err != nil {
		t.Fatalf("FindOrCreateOngoing failed: %v", err)
	}
	second, err := s.FindOrCreateOngoing(ctx, "user-1", "a@b.com")
	if err != nil {
		t.Fatalf("FindOrCreateOngoing failed: %v", err)
	}
	if first.ID != second.ID {
		t.Error("expected the existing ongoing session to be reused")
	}

	if err := s.UpdateSessionStatus(ctx, first.ID, StatusCompleted); err != nil {
		t.Fatalf("UpdateSessionStatus failed: %v", err)
	}
	third, err := s.FindOrCreateOngoing(ctx, "user-1", "a@b.com")
	if err != nil {
		t.Fatalf("FindOrCreateOngoing failed: %v", err)
	}
	if third.ID == first.ID {
		t.Error("a completed session must not be reused")
	}
}

func TestResponsesOrderedByQuestionIndex(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	session, err := s.CreateSession(ctx, "user-1", "a@b.com")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// Inserted out of order on purpose.
	for _, idx := range []int{5, 1, 3} {
		rec := protocol.ResponseRecord{
			QuestionIndex:  idx,
			QuestionDomain: "Identidade",
			QuestionText:   "Pergunta?",
			TranscriptText: "Resposta.",
		}
		if _, err := s.AddResponse(ctx, session.ID, rec, "https://x/audio.wav", 12.5); err != nil {
			t.Fatalf("AddResponse failed: %v", err)
		}
	}

	responses, err := s.SessionResponses(ctx, session.ID)
	if err != nil {
		t.Fatalf("SessionResponses failed: %v", err)
	}
	if len(responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(responses))
	}
	for i, want := range []int{1, 3, 5} {
		if responses[i].QuestionIndex != want {
			t.Errorf("response %d: index %d, want %d", i, responses[i].QuestionIndex, want)
		}
	}
	if responses[0].AudioURL != "https://x/audio.wav" || responses[0].AudioDuration != 12.5 {
		t.Errorf("audio metadata not persisted: %+v", responses[0])
	}

	records, err := s.ResponseRecords(ctx, session.ID)
	if err != nil {
		t.Fatalf("ResponseRecords failed: %v", err)
	}
	if len(records) != 3 || records[0].QuestionIndex != 1 {
		t.Errorf("unexpected records: %+v", records)
	}

	count, err := s.CountResponses(ctx, session.ID)
	if err != nil {
		t.Fatalf("CountResponses failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestListSessionsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.CreateSession(ctx, "user-1", "a@b.com"); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}
	if _, err := s.CreateSession(ctx, "user-2", "other@b.com"); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	sessions, err := s.ListSessions(ctx, "a@b.com", 2)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	for _, session := range sessions {
		if session.UserEmail != "a@b.com" {
			t.Errorf("listing leaked another user's session: %+v", session)
		}
	}
	if sessions[0].CreatedAt.Before(sessions[1].CreatedAt) {
		t.Error("sessions must list newest first")
	}
}

func TestMigrateIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if _, err := s.CreateSession(context.Background(), "u", "a@b.com"); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	s.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	sessions, err := reopened.ListSessions(context.Background(), "a@b.com", 0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("data lost across reopen: %d sessions", len(sessions))
	}
}
