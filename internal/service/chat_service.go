package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hanbat-ai/hanbatbot/internal/config"
	"github.com/hanbat-ai/hanbatbot/internal/domain"
	"github.com/hanbat-ai/hanbatbot/internal/repository"
)

// Greeting shown when a session is created, by RAG status. The reset variants
// are used for the replacement session after a delete or an explicit new chat.
const (
	greetingReady    = "안녕하세요! 한밭대학교 학칙, 학점, 장학금, 생활관 규정에 대해 궁금한 점을 질문해주세요."
	greetingNoKey    = "안녕하세요! OpenAI API 키 설정이 필요합니다. 관리자에게 문의해주세요."
	greetingDegraded = "안녕하세요! 현재 문서 학습에 문제가 있어 답변이 제한적일 수 있습니다. 관리자에게 문의해주세요."

	resetReady    = "새로운 대화를 시작합니다. 무엇이든 물어보세요!"
	resetNoKey    = "새 대화 시작. (API 키 설정 필요)"
	resetDegraded = "새 대화 시작. (문서 학습 문제로 답변 제한적일 수 있음)"
)

// User-facing messages for a failed turn. The failed turn is still recorded
// as a normal assistant message so the history stays coherent.
const (
	errAuthMessage      = "⚠️ OpenAI API 인증 오류가 발생했습니다. API 키가 유효한지 또는 사용량 한도를 확인해주세요."
	errRateLimitMessage = "⚠️ API 호출 한도 초과 오류입니다. 잠시 후 다시 시도해주시거나 API 플랜을 확인해주세요."
	errGenericFormat    = "⚠️ 답변 생성 중 오류가 발생했습니다: %s"
)

// sourcesSeparator joins the answer and its citation list in the stored
// assistant message.
const sourcesSeparator = "\n\n--- 참고 문서 ---\n"

// NewSessionResult is a freshly created session plus its greeting. The
// greeting is shown but never persisted; reloaded histories start with the
// first real turn.
type NewSessionResult struct {
	Session  *domain.ChatSession `json:"session"`
	Greeting domain.ChatMessage  `json:"greeting"`
}

// ChatService orchestrates session lifecycle and message turns
type ChatService struct {
	cfg         *config.Config
	sessionRepo *repository.SessionRepository
	engine      *Engine
	logger      *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	cfg *config.Config,
	sessionRepo *repository.SessionRepository,
	engine *Engine,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		cfg:         cfg,
		sessionRepo: sessionRepo,
		engine:      engine,
		logger:      logger,
	}
}

// CreateSession allocates a new session with a placeholder title and returns
// the greeting matching the RAG subsystem's state. reset selects the shorter
// greeting used when replacing a previous conversation.
func (s *ChatService) CreateSession(ctx context.Context, reset bool) (*NewSessionResult, error) {
	session := &domain.ChatSession{}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}

	status, _ := s.engine.Status(ctx)
	var greeting string
	switch {
	case status == StatusNoAPIKey && reset:
		greeting = resetNoKey
	case status == StatusNoAPIKey:
		greeting = greetingNoKey
	case status != StatusReady && reset:
		greeting = resetDegraded
	case status != StatusReady:
		greeting = greetingDegraded
	case reset:
		greeting = resetReady
	default:
		greeting = greetingReady
	}

	return &NewSessionResult{
		Session: session,
		Greeting: domain.ChatMessage{
			SessionID: session.SessionID,
			Role:      domain.RoleAssistant,
			Content:   greeting,
			Timestamp: time.Now().Format(domain.TimestampLayout),
		},
	}, nil
}

// Sessions lists all sessions, most recently updated first, with the display
// title the sidebar shows for untitled conversations.
func (s *ChatService) Sessions() ([]*domain.SessionView, error) {
	sessions, err := s.sessionRepo.List()
	if err != nil {
		return nil, err
	}

	views := make([]*domain.SessionView, len(sessions))
	for i, sess := range sessions {
		views[i] = &domain.SessionView{
			ChatSession:  *sess,
			DisplayTitle: displayTitle(sess),
		}
	}
	return views, nil
}

// History loads the full ordered message history for a session. Used when the
// user switches to an existing conversation; titles are never re-derived here.
func (s *ChatService) History(sessionID string) (*domain.ChatSession, []*domain.ChatMessage, error) {
	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, domain.ErrNotFound
	}

	messages, err := s.sessionRepo.Messages(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, messages, nil
}

// DeleteSession removes a session with all its messages and starts a fresh
// replacement session. The two-step confirmation lives in the UI; by the time
// this runs the deletion is final.
func (s *ChatService) DeleteSession(ctx context.Context, sessionID string) (*NewSessionResult, error) {
	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.sessionRepo.Delete(sessionID); err != nil {
		return nil, err
	}

	return s.CreateSession(ctx, true)
}

// Ask runs one chat turn: the user message is persisted first (deriving the
// session title on the first question), then the answer is synthesized and
// recorded. Capability failures become fixed assistant messages instead of
// errors; store failures propagate.
func (s *ChatService) Ask(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	session, err := s.sessionRepo.Get(req.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}

	var title string
	if session.Title == domain.PlaceholderTitle {
		hasUser, err := s.sessionRepo.HasUserMessage(req.SessionID)
		if err != nil {
			return nil, err
		}
		if !hasUser {
			title = DeriveTitle(req.Message)
		}
	}

	userMsg := &domain.ChatMessage{
		SessionID: req.SessionID,
		Role:      domain.RoleUser,
		Content:   req.Message,
	}
	if err := s.sessionRepo.AppendMessage(userMsg, title); err != nil {
		return nil, err
	}

	answer, sources, debugCtx, failed := s.synthesize(ctx, req.Message)

	stored := answer
	if len(sources) > 0 {
		stored += sourcesSeparator + strings.Join(sources, ", ")
	}
	assistantMsg := &domain.ChatMessage{
		SessionID: req.SessionID,
		Role:      domain.RoleAssistant,
		Content:   stored,
	}
	if err := s.sessionRepo.AppendMessage(assistantMsg, ""); err != nil {
		return nil, err
	}

	resp := &domain.ChatResponse{
		SessionID: req.SessionID,
		Answer:    answer,
		Sources:   sources,
		Timestamp: assistantMsg.Timestamp,
		Failed:    failed,
	}
	if req.Debug {
		resp.DebugContext = debugCtx
	}
	return resp, nil
}

// synthesize produces the assistant's reply for a question, mapping each
// capability failure kind to its fixed user-facing message.
func (s *ChatService) synthesize(ctx context.Context, question string) (answer string, sources []string, debugCtx string, failed bool) {
	result, err := s.engine.Answer(ctx, question)
	if err == nil {
		return result.Answer, result.Sources, result.DebugContext, false
	}

	s.logger.Warn("turn failed", zap.Error(err))
	switch {
	case errors.Is(err, domain.ErrAuthFailed):
		return errAuthMessage, nil, "", true
	case errors.Is(err, domain.ErrRateLimited):
		return errRateLimitMessage, nil, "", true
	default:
		return fmt.Sprintf(errGenericFormat, err.Error()), nil, "", true
	}
}

// DeriveTitle builds a session title from the first user question: the first
// line, capped at 40 characters with an ellipsis marker when truncated.
func DeriveTitle(question string) string {
	firstLine := question
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}

	runes := []rune(firstLine)
	if len(runes) <= domain.TitleMaxRunes {
		return firstLine
	}
	return string(runes[:domain.TitleMaxRunes]) + "..."
}

// displayTitle renders the sidebar label for a session: the derived title, or
// a "new chat" label with the start time while the placeholder still stands.
func displayTitle(s *domain.ChatSession) string {
	if s.Title != "" && s.Title != domain.PlaceholderTitle {
		return s.Title
	}
	if t, err := time.Parse(domain.TimestampLayout, s.StartTime); err == nil {
		return fmt.Sprintf("새 대화 %s", t.Format("01/02 15:04"))
	}
	return domain.PlaceholderTitle
}
