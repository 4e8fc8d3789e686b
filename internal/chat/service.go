package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ashureev/bibleai/internal/completion"
	"github.com/ashureev/bibleai/internal/domain"
)

// ErrEmptyMessage is returned when a turn has no text.
var ErrEmptyMessage = errors.New("message is empty")

// Channels a turn can arrive on, recorded in the conversation log.
const (
	ChannelHTTP      = "chat_http"
	ChannelWebSocket = "chat_ws"
)

// TurnRequest is one user message.
type TurnRequest struct {
	Message string `json:"message"`
	Channel string `json:"-"`
}

// TurnResult reports what a turn produced. Committed is false when the user
// moved to another session before the reply arrived.
type TurnResult struct {
	SessionID   string          `json:"session_id"`
	UserMessage domain.Message  `json:"user_message"`
	Reply       domain.Message  `json:"reply"`
	Title       string          `json:"title,omitempty"`
	Failure     completion.Kind `json:"failure,omitempty"`
	Committed   bool            `json:"committed"`
}

// ServiceConfig configures Service.
type ServiceConfig struct {
	MaxTokens int
}

// Service runs chat turns: it records the user's message, asks the completer
// for a reply (and a title for untitled sessions) and commits the result.
type Service struct {
	sessions  *SessionStore
	completer completion.Completer
	convLog   ConversationLogger
	maxTokens int
	logger    *slog.Logger
}

// NewService wires a Service. convLog may be nil.
func NewService(sessions *SessionStore, completer completion.Completer, convLog ConversationLogger, cfg ServiceConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if convLog == nil {
		convLog = noopConversationLogger{}
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	return &Service{
		sessions:  sessions,
		completer: completer,
		convLog:   convLog,
		maxTokens: cfg.MaxTokens,
		logger:    logger.With("component", "chat_service"),
	}
}

// Sessions exposes the underlying session store.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// Send runs one turn. Remote failures never surface as errors: they become
// the assistant reply. The remote calls are detached from ctx cancellation so
// a caller going away abandons the turn rather than cancelling it.
func (s *Service) Send(ctx context.Context, req TurnRequest) (TurnResult, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return TurnResult{}, ErrEmptyMessage
	}
	channel := req.Channel
	if channel == "" {
		channel = ChannelHTTP
	}

	userMsg := domain.Message{ID: uuid.NewString(), Role: domain.RoleUser, Content: text}
	sessionID, transcript, untitled := s.sessions.beginTurn(userMsg)
	s.convLog.Log(ConversationLogEvent{
		SessionID: sessionID,
		Channel:   channel,
		Direction: "inbound",
		EventType: "chat_user_message",
		Content:   text,
	})

	callCtx := context.WithoutCancel(ctx)
	start := time.Now()

	var (
		wg       sync.WaitGroup
		replyTxt string
		replyErr error
		title    string
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		replyTxt, replyErr = s.completer.Complete(callCtx, completion.SystemPrompt, transcript, s.maxTokens)
	}()
	if untitled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			title = s.completer.GenerateTitle(callCtx, text)
		}()
	}
	wg.Wait()

	result := TurnResult{SessionID: sessionID, UserMessage: userMsg, Title: title}
	content := replyTxt
	switch {
	case replyErr != nil:
		result.Failure = completion.KindOf(replyErr)
		content = result.Failure.UserMessage()
		s.logger.Warn("completion failed", "session_id", sessionID, "kind", result.Failure, "error", replyErr)
	case strings.TrimSpace(replyTxt) == "":
		content = completion.EmptyReply
	}
	result.Reply = domain.Message{ID: uuid.NewString(), Role: domain.RoleAssistant, Content: content}

	result.Committed = s.sessions.commitTurn(sessionID, result.Reply, title)
	if !result.Committed {
		s.logger.Info("discarding late reply for inactive session", "session_id", sessionID)
	}

	s.convLog.Log(ConversationLogEvent{
		SessionID:   sessionID,
		Channel:     channel,
		Direction:   "outbound",
		EventType:   "chat_assistant_reply",
		Content:     content,
		FailureKind: string(result.Failure),
		Title:       title,
		DurationMs:  time.Since(start).Milliseconds(),
		Discarded:   !result.Committed,
	})
	return result, nil
}
