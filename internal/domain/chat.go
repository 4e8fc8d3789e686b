package domain

// Role tags who authored a chat message.
type Role string

const (
	// RoleUser marks a message typed by the user.
	RoleUser Role = "user"
	// RoleAssistant marks a generated reply or a surfaced failure.
	RoleAssistant Role = "assistant"
)

// Message is one entry in a chat transcript.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatSession is a conversation. CreatedAt is epoch milliseconds, matching
// the persisted record format.
type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"createdAt"`
}

// IsBlank reports whether the session has neither a title nor messages.
func (s *ChatSession) IsBlank() bool {
	return s.Title == "" && len(s.Messages) == 0
}

// Clone returns a deep copy safe to hand out of a store.
func (s ChatSession) Clone() ChatSession {
	out := s
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}
