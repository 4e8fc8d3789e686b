package completion

import (
	"errors"
	"fmt"
)

// Kind classifies a completion failure.
type Kind string

const (
	KindNotConfigured     Kind = "not_configured"
	KindNetwork           Kind = "network_unreachable"
	KindRateLimited       Kind = "rate_limited"
	KindInvalidCredential Kind = "invalid_credential"
	KindService           Kind = "service_error"
)

var userMessages = map[Kind]string{
	KindNotConfigured:     "Bible AI is not set up yet. Add an OpenAI API key to start chatting.",
	KindNetwork:           "I could not reach the server. Please check your connection and try again.",
	KindRateLimited:       "API quota exceeded. Please check your OpenAI billing at platform.openai.com",
	KindInvalidCredential: "Invalid API key. Please check your OpenAI API key.",
	KindService:           "Something went wrong while preparing a response. Please try again.",
}

// UserMessage returns the fixed text shown in the transcript for kind.
func (k Kind) UserMessage() string {
	if msg, ok := userMessages[k]; ok {
		return msg
	}
	return userMessages[KindService]
}

// Error is a classified completion failure.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, zero when no response arrived
	Message string // provider or transport detail, for logs
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("completion %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("completion %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the fixed text for the error's kind.
func (e *Error) UserMessage() string {
	return e.Kind.UserMessage()
}

// KindOf extracts the failure kind from err. Unclassified errors are
// service errors.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindService
}
