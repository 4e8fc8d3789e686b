package chat

import "github.com/ashureev/bibleai/internal/domain"

// sessionState is the whole chat record: the session list, newest first, and
// the current session pointer. Every structural change ends in normalize.
type sessionState struct {
	sessions  []domain.ChatSession
	currentID string
}

func (st *sessionState) index(id string) int {
	for i := range st.sessions {
		if st.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *sessionState) current() *domain.ChatSession {
	if i := st.index(st.currentID); i >= 0 {
		return &st.sessions[i]
	}
	return nil
}

func (st *sessionState) firstBlank() int {
	for i := range st.sessions {
		if st.sessions[i].IsBlank() {
			return i
		}
	}
	return -1
}

// normalize restores the invariants: at most one blank session (the current
// one wins if blank) and a valid current pointer whenever sessions exist.
func (st *sessionState) normalize() {
	keep := ""
	if cur := st.current(); cur != nil && cur.IsBlank() {
		keep = cur.ID
	} else if i := st.firstBlank(); i >= 0 {
		keep = st.sessions[i].ID
	}

	out := st.sessions[:0]
	for _, s := range st.sessions {
		if s.IsBlank() && s.ID != keep {
			continue
		}
		if s.Messages == nil {
			s.Messages = []domain.Message{}
		}
		out = append(out, s)
	}
	st.sessions = out

	if st.current() == nil {
		st.currentID = ""
		if len(st.sessions) > 0 {
			st.currentID = st.sessions[0].ID
		}
	}
}

func (st *sessionState) snapshot() []domain.ChatSession {
	out := make([]domain.ChatSession, len(st.sessions))
	for i, s := range st.sessions {
		out[i] = s.Clone()
	}
	return out
}
