package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hanbat-ai/hanbatbot/internal/domain"
)

// SessionRepository handles chat session and message persistence. Every write
// runs inside a transaction so a turn is either fully recorded or not at all;
// history loss is never silent.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session with the placeholder title
func (r *SessionRepository) Create(session *domain.ChatSession) error {
	if session.SessionID == "" {
		session.SessionID = uuid.New().String()
	}
	if session.Title == "" {
		session.Title = domain.PlaceholderTitle
	}
	now := time.Now().Format(domain.TimestampLayout)
	session.StartTime = now
	session.LastUpdated = now

	_, err := r.db.Exec(`
		INSERT INTO chat_sessions (session_id, title, start_time, last_updated)
		VALUES (?, ?, ?, ?)
	`, session.SessionID, session.Title, session.StartTime, session.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(id string) (*domain.ChatSession, error) {
	session := &domain.ChatSession{}
	err := r.db.QueryRow(`
		SELECT session_id, title, start_time, last_updated
		FROM chat_sessions WHERE session_id = ?
	`, id).Scan(&session.SessionID, &session.Title, &session.StartTime, &session.LastUpdated)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// List returns all sessions, most recently updated first
func (r *SessionRepository) List() ([]*domain.ChatSession, error) {
	rows, err := r.db.Query(`
		SELECT session_id, title, start_time, last_updated
		FROM chat_sessions ORDER BY last_updated DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ChatSession
	for rows.Next() {
		s := &domain.ChatSession{}
		if err := rows.Scan(&s.SessionID, &s.Title, &s.StartTime, &s.LastUpdated); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// AppendMessage records one message and refreshes the session's last_updated
// stamp in a single transaction. If title is non-empty the session title is
// set as well; callers use this exactly once, on the first user question.
func (r *SessionRepository) AppendMessage(msg *domain.ChatMessage, title string) error {
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().Format(domain.TimestampLayout)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO chat_messages (session_id, role, content, timestamp)
		VALUES (?, ?, ?, ?)
	`, msg.SessionID, msg.Role, msg.Content, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		msg.MessageID = id
	}

	if _, err := tx.Exec(`UPDATE chat_sessions SET last_updated = ? WHERE session_id = ?`,
		msg.Timestamp, msg.SessionID); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if title != "" {
		if _, err := tx.Exec(`UPDATE chat_sessions SET title = ? WHERE session_id = ?`,
			title, msg.SessionID); err != nil {
			return fmt.Errorf("failed to set session title: %w", err)
		}
	}

	return tx.Commit()
}

// Messages retrieves the full ordered history for a session. Ordering by
// timestamp then message_id keeps insertion order stable for messages that
// share a second.
func (r *SessionRepository) Messages(sessionID string) ([]*domain.ChatMessage, error) {
	rows, err := r.db.Query(`
		SELECT message_id, session_id, role, content, timestamp
		FROM chat_messages WHERE session_id = ?
		ORDER BY timestamp ASC, message_id ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		m := &domain.ChatMessage{}
		if err := rows.Scan(&m.MessageID, &m.SessionID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// HasUserMessage reports whether the session already has at least one user
// message, i.e. whether its title has been derived.
func (r *SessionRepository) HasUserMessage(sessionID string) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM chat_messages WHERE session_id = ? AND role = ?
	`, sessionID, domain.RoleUser).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes a session and all its messages atomically
func (r *SessionRepository) Delete(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM chat_messages WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM chat_sessions WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return tx.Commit()
}
