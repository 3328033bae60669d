// Package store persists analysis sessions and their responses in a local
// SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"personify/internal/logging"
	"personify/internal/protocol"
)

// Session statuses.
const (
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// ErrNotFound is returned when a session or response does not exist.
var ErrNotFound = errors.New("not found")

// timeFormat keeps a fixed-width fraction so timestamp strings sort
// lexicographically; RFC3339Nano trims trailing zeros and would not.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Session is one questionnaire run for one user.
type Session struct {
	ID        string
	UserID    string
	UserEmail string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoredResponse is one persisted answer.
type StoredResponse struct {
	ID        string
	SessionID string
	protocol.ResponseRecord
	AudioURL      string
	AudioDuration float64
	CreatedAt     time.Time
}

// Store wraps the SQLite database. Safe for concurrent use; SQLite serializes
// writers and the busy timeout absorbs contention.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Store("opened database at %s", path)
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession starts a new ongoing session.
func (s *Store) CreateSession(ctx context.Context, userID, userEmail string) (*Session, error) {
	now := time.Now().UTC()
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserEmail: userEmail,
		Status:    StatusOngoing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_sessions (id, user_id, user_email, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.UserEmail, session.Status,
		session.CreatedAt.Format(timeFormat), session.UpdatedAt.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logging.Store("created session %s for %s", session.ID, userEmail)
	return session, nil
}

// FindOrCreateOngoing returns the user's most recent ongoing session, or
// starts a new one.
func (s *Store) FindOrCreateOngoing(ctx context.Context, userID, userEmail string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, user_email, status, created_at, updated_at
		FROM analysis_sessions
		WHERE user_email = ? AND status = ?
		ORDER BY created_at DESC
		LIMIT 1`, userEmail, StatusOngoing)

	session, err := scanSession(row)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query ongoing session: %w", err)
	}
	return s.CreateSession(ctx, userID, userEmail)
}

// GetSession loads one session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, user_email, status, created_at, updated_at
		FROM analysis_sessions WHERE id = ?`, id)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// UpdateSessionStatus transitions a session and bumps its updated_at.
func (s *Store) UpdateSessionStatus(ctx context.Context, id, status string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE analysis_sessions SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC().Format(timeFormat), id)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	logging.Store("session %s -> %s", id, status)
	return nil
}

// ListSessions returns a user's sessions, newest first. A non-positive limit
// means no limit.
func (s *Store) ListSessions(ctx context.Context, userEmail string, limit int) ([]Session, error) {
	query := `
		SELECT id, user_id, user_email, status, created_at, updated_at
		FROM analysis_sessions WHERE user_email = ?
		ORDER BY created_at DESC`
	args := []interface{}{userEmail}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

// AddResponse persists one answer in a session.
func (s *Store) AddResponse(ctx context.Context, sessionID string, rec protocol.ResponseRecord, audioURL string, audioDuration float64) (*StoredResponse, error) {
	response := &StoredResponse{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		ResponseRecord: rec,
		AudioURL:       audioURL,
		AudioDuration:  audioDuration,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_responses
			(id, session_id, question_index, question_domain, question_text,
			 transcript_text, audio_url, audio_duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		response.ID, response.SessionID, rec.QuestionIndex, rec.QuestionDomain,
		rec.QuestionText, rec.TranscriptText, response.AudioURL,
		response.AudioDuration, response.CreatedAt.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to add response: %w", err)
	}

	logging.StoreDebug("session %s: stored response to question %d", sessionID, rec.QuestionIndex)
	return response, nil
}

// SessionResponses returns a session's answers ordered by question index.
func (s *Store) SessionResponses(ctx context.Context, sessionID string) ([]StoredResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, question_index, question_domain, question_text,
		       transcript_text, audio_url, audio_duration, created_at
		FROM user_responses WHERE session_id = ?
		ORDER BY question_index ASC, created_at ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}
	defer rows.Close()

	var responses []StoredResponse
	for rows.Next() {
		var r StoredResponse
		var createdAt string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.QuestionIndex, &r.QuestionDomain,
			&r.QuestionText, &r.TranscriptText, &r.AudioURL, &r.AudioDuration, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// ResponseRecords returns just the protocol records of a session's answers,
// ordered by question index, ready for the assembler.
func (s *Store) ResponseRecords(ctx context.Context, sessionID string) ([]protocol.ResponseRecord, error) {
	responses, err := s.SessionResponses(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	records := make([]protocol.ResponseRecord, len(responses))
	for i, r := range responses {
		records[i] = r.ResponseRecord
	}
	return records, nil
}

// CountResponses returns how many answers a session holds.
func (s *Store) CountResponses(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_responses WHERE session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*Session, error) {
	var s Session
	var createdAt, updatedAt string
	if err := row.Scan(&s.ID, &s.UserID, &s.UserEmail, &s.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s) // accepts the fixed-width form too
	if err != nil {
		return time.Time{}
	}
	return t
}
