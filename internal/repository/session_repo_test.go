package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbat-ai/hanbatbot/internal/domain"
)

func newTestRepo(t *testing.T) *SessionRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "chat_history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSessionRepository(db)
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)

	session := &domain.ChatSession{}
	require.NoError(t, repo.Create(session))

	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, domain.PlaceholderTitle, session.Title)
	assert.NotEmpty(t, session.StartTime)
	assert.Equal(t, session.StartTime, session.LastUpdated)

	got, err := repo.Get(session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.SessionID, got.SessionID)
	assert.Equal(t, domain.PlaceholderTitle, got.Title)
}

func TestGetUnknown(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.Get("no-such-session")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListOrdering(t *testing.T) {
	repo := newTestRepo(t)

	first := &domain.ChatSession{}
	second := &domain.ChatSession{}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	// A new message bumps the older session back to the top
	require.NoError(t, repo.AppendMessage(&domain.ChatMessage{
		SessionID: first.SessionID,
		Role:      domain.RoleUser,
		Content:   "장학금 기준이 궁금해요",
		Timestamp: "2099-01-01 00:00:00",
	}, ""))

	sessions, err := repo.List()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.SessionID, sessions[0].SessionID)
	assert.Equal(t, "2099-01-01 00:00:00", sessions[0].LastUpdated)
	assert.Equal(t, second.SessionID, sessions[1].SessionID)
}

func TestAppendMessageSetsTitleOnce(t *testing.T) {
	repo := newTestRepo(t)

	session := &domain.ChatSession{}
	require.NoError(t, repo.Create(session))

	require.NoError(t, repo.AppendMessage(&domain.ChatMessage{
		SessionID: session.SessionID,
		Role:      domain.RoleUser,
		Content:   "수강신청 기간이 언제인가요?",
	}, "수강신청 기간이 언제인가요?"))

	got, err := repo.Get(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "수강신청 기간이 언제인가요?", got.Title)

	// Later turns pass an empty title and must not overwrite it
	require.NoError(t, repo.AppendMessage(&domain.ChatMessage{
		SessionID: session.SessionID,
		Role:      domain.RoleAssistant,
		Content:   "답변",
	}, ""))

	got, err = repo.Get(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "수강신청 기간이 언제인가요?", got.Title)
}

func TestMessagesOrdering(t *testing.T) {
	repo := newTestRepo(t)

	session := &domain.ChatSession{}
	require.NoError(t, repo.Create(session))

	// Same-second messages keep insertion order via message_id
	ts := "2025-06-01 12:00:00"
	contents := []string{"질문", "답변", "후속 질문"}
	roles := []string{domain.RoleUser, domain.RoleAssistant, domain.RoleUser}
	for i := range contents {
		require.NoError(t, repo.AppendMessage(&domain.ChatMessage{
			SessionID: session.SessionID,
			Role:      roles[i],
			Content:   contents[i],
			Timestamp: ts,
		}, ""))
	}

	messages, err := repo.Messages(session.SessionID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	for i, m := range messages {
		assert.Equal(t, contents[i], m.Content)
		assert.Equal(t, roles[i], m.Role)
		assert.Positive(t, m.MessageID)
	}
}

func TestHasUserMessage(t *testing.T) {
	repo := newTestRepo(t)

	session := &domain.ChatSession{}
	require.NoError(t, repo.Create(session))

	has, err := repo.HasUserMessage(session.SessionID)
	require.NoError(t, err)
	assert.False(t, has)

	// Assistant messages alone don't count
	require.NoError(t, repo.AppendMessage(&domain.ChatMessage{
		SessionID: session.SessionID,
		Role:      domain.RoleAssistant,
		Content:   "안내",
	}, ""))
	has, err = repo.HasUserMessage(session.SessionID)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, repo.AppendMessage(&domain.ChatMessage{
		SessionID: session.SessionID,
		Role:      domain.RoleUser,
		Content:   "질문",
	}, ""))
	has, err = repo.HasUserMessage(session.SessionID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestDeleteRemovesSessionAndMessages(t *testing.T) {
	repo := newTestRepo(t)

	session := &domain.ChatSession{}
	require.NoError(t, repo.Create(session))
	require.NoError(t, repo.AppendMessage(&domain.ChatMessage{
		SessionID: session.SessionID,
		Role:      domain.RoleUser,
		Content:   "질문",
	}, ""))

	require.NoError(t, repo.Delete(session.SessionID))

	got, err := repo.Get(session.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got)

	messages, err := repo.Messages(session.SessionID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	// The store stays usable for a fresh replacement session
	replacement := &domain.ChatSession{}
	require.NoError(t, repo.Create(replacement))
	require.NoError(t, repo.AppendMessage(&domain.ChatMessage{
		SessionID: replacement.SessionID,
		Role:      domain.RoleUser,
		Content:   "새 질문",
	}, ""))
}
