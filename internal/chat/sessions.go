// Package chat manages conversation sessions and runs chat turns against the
// completion service.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/ashureev/bibleai/internal/domain"
	"github.com/ashureev/bibleai/internal/store"
)

// SessionStore owns the chat sessions in memory and mirrors the full list to
// durable storage after every mutation.
type SessionStore struct {
	repo   store.Repository
	mirror *store.Mirror
	key    string
	logger *slog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	state sessionState
}

// NewSessionStore creates an empty store. Call Load to restore sessions.
func NewSessionStore(repo store.Repository, mirror *store.Mirror, key string, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		repo:   repo,
		mirror: mirror,
		key:    key,
		logger: logger.With("component", "chat_sessions"),
		now:    time.Now,
	}
}

// Load restores persisted sessions and selects the most recent one. Corrupt
// data is discarded and its record cleared.
func (s *SessionStore) Load(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load chat sessions: %w", err)
	}

	var sessions []domain.ChatSession
	if raw != nil {
		if err := json.Unmarshal(raw, &sessions); err != nil {
			s.logger.Warn("discarding corrupt chat sessions", "key", s.key, "error", err)
			if delErr := s.repo.Delete(ctx, s.key); delErr != nil {
				return fmt.Errorf("clear corrupt chat sessions: %w", delErr)
			}
			sessions = nil
		}
	}

	seen := make(map[string]bool, len(sessions))
	valid := make([]domain.ChatSession, 0, len(sessions))
	for _, sess := range sessions {
		if sess.ID == "" || seen[sess.ID] {
			continue
		}
		seen[sess.ID] = true
		valid = append(valid, sess)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = sessionState{sessions: valid}
	if len(valid) > 0 {
		s.state.currentID = valid[0].ID
	}
	before := len(sessions)
	s.state.normalize()
	if len(s.state.sessions) != before && raw != nil && before > 0 {
		s.persistLocked()
	}
	s.logger.Info("chat sessions loaded", "count", len(s.state.sessions))
	return nil
}

// mutate applies fn under the lock. When fn reports a change the invariants
// are re-derived and the list is persisted.
func (s *SessionStore) mutate(fn func(st *sessionState) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !fn(&s.state) {
		return
	}
	s.state.normalize()
	s.persistLocked()
}

func (s *SessionStore) persistLocked() {
	data, err := json.Marshal(s.state.sessions)
	if err != nil {
		s.logger.Error("encode chat sessions", "error", err)
		return
	}
	s.mirror.Enqueue(s.key, data)
}

// newSessionLocked builds a blank session whose id is derived from the
// creation time and bumped past any collision.
func (s *SessionStore) newSessionLocked() domain.ChatSession {
	now := s.now().UnixMilli()
	id := now
	for s.state.index(strconv.FormatInt(id, 10)) >= 0 {
		id++
	}
	return domain.ChatSession{
		ID:        strconv.FormatInt(id, 10),
		Messages:  []domain.Message{},
		CreatedAt: now,
	}
}

// CreateNewChat selects the existing blank session if there is one, otherwise
// prepends a new blank session and selects it. It returns the current id.
func (s *SessionStore) CreateNewChat() string {
	var id string
	s.mutate(func(st *sessionState) bool {
		if i := st.firstBlank(); i >= 0 {
			id = st.sessions[i].ID
			changed := st.currentID != id
			st.currentID = id
			return changed
		}
		sess := s.newSessionLocked()
		st.sessions = append([]domain.ChatSession{sess}, st.sessions...)
		st.currentID = sess.ID
		id = sess.ID
		return true
	})
	return id
}

// SelectChat makes id current. Unknown ids leave the state unchanged.
func (s *SessionStore) SelectChat(id string) bool {
	found := false
	s.mutate(func(st *sessionState) bool {
		if st.index(id) < 0 {
			return false
		}
		found = true
		changed := st.currentID != id
		st.currentID = id
		return changed
	})
	if !found {
		s.logger.Warn("select of unknown chat session ignored", "session_id", id)
	}
	return found
}

// AddMessage appends msg to the current session. It is a no-op without one.
func (s *SessionStore) AddMessage(msg domain.Message) bool {
	added := false
	s.mutate(func(st *sessionState) bool {
		cur := st.current()
		if cur == nil {
			return false
		}
		cur.Messages = append(cur.Messages, msg)
		added = true
		return true
	})
	return added
}

// SetSessionTitle overwrites the current session's title.
func (s *SessionStore) SetSessionTitle(title string) bool {
	set := false
	s.mutate(func(st *sessionState) bool {
		cur := st.current()
		if cur == nil {
			return false
		}
		cur.Title = title
		set = true
		return true
	})
	return set
}

// DeleteChat removes a session. Deleting the current session promotes the
// first remaining one; deleting the last session leaves a fresh blank one.
func (s *SessionStore) DeleteChat(id string) bool {
	deleted := false
	s.mutate(func(st *sessionState) bool {
		i := st.index(id)
		if i < 0 {
			return false
		}
		st.sessions = append(st.sessions[:i:i], st.sessions[i+1:]...)
		if len(st.sessions) == 0 {
			sess := s.newSessionLocked()
			st.sessions = []domain.ChatSession{sess}
			st.currentID = sess.ID
		}
		deleted = true
		return true
	})
	return deleted
}

// Clear drops every session from memory and storage.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.state = sessionState{}
	s.mirror.EnqueueDelete(s.key)
	s.mu.Unlock()

	if err := s.mirror.Flush(ctx); err != nil {
		return fmt.Errorf("clear chat sessions: %w", err)
	}
	return nil
}

// Sessions returns a copy of all sessions, newest first.
func (s *SessionStore) Sessions() []domain.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.snapshot()
}

// Current returns a copy of the current session.
func (s *SessionStore) Current() (domain.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cur := s.state.current()
	if cur == nil {
		return domain.ChatSession{}, false
	}
	return cur.Clone(), true
}

// CurrentID returns the current session id, or "" when there are none.
func (s *SessionStore) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.currentID
}

// HasSessions reports whether any session exists.
func (s *SessionStore) HasSessions() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.sessions) > 0
}

// beginTurn appends the user's message to the current session, creating one
// when none exists, and returns the transcript to send.
func (s *SessionStore) beginTurn(msg domain.Message) (sessionID string, transcript []domain.Message, untitled bool) {
	s.mutate(func(st *sessionState) bool {
		cur := st.current()
		if cur == nil {
			if i := st.firstBlank(); i >= 0 {
				st.currentID = st.sessions[i].ID
			} else {
				sess := s.newSessionLocked()
				st.sessions = append([]domain.ChatSession{sess}, st.sessions...)
				st.currentID = sess.ID
			}
			cur = st.current()
		}
		untitled = cur.Title == ""
		cur.Messages = append(cur.Messages, msg)
		sessionID = cur.ID
		transcript = make([]domain.Message, len(cur.Messages))
		copy(transcript, cur.Messages)
		return true
	})
	return sessionID, transcript, untitled
}

// commitTurn appends reply, and title when non-empty, to sessionID only if it
// is still current. Late results for a session the user left are dropped.
func (s *SessionStore) commitTurn(sessionID string, reply domain.Message, title string) bool {
	committed := false
	s.mutate(func(st *sessionState) bool {
		cur := st.current()
		if cur == nil || cur.ID != sessionID {
			return false
		}
		cur.Messages = append(cur.Messages, reply)
		if title != "" {
			cur.Title = title
		}
		committed = true
		return true
	})
	return committed
}
