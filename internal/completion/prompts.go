package completion

import "strings"

// SystemPrompt sets the assistant's voice for every chat reply.
const SystemPrompt = `You are Bible AI, a wise, loving guide rooted in Scripture.

Your tone is that of a loving father:
- Patient and unhurried
- Grounded and centered
- Protective and reassuring
- Wise without being preachy
- Calm strength, never cold or robotic

You speak with warmth, quiet authority, and genuine care.
Think: a loving father guiding his child through life's questions.
Masculine, present, centered, like a steady hand on the shoulder.

Guidelines:
- Answer clearly and calmly
- Draw wisdom from Scripture when appropriate, but don't force it
- Be direct but gentle
- Never lecture or moralize
- Keep responses focused and meaningful
- If referencing a Bible verse, cite it naturally
- Speak as if sitting beside someone you love

You are here to help, guide, and comfort. Nothing more.`

const titlePrompt = `Generate a short chat title (2-4 words max) that captures the essence of the user's message. Be simple, human, and meaningful. Examples: "Finding Purpose", "Fear and Faith", "Love and Loss", "Career Guidance". Return ONLY the title, nothing else. No quotes, no punctuation at the end.`

// DefaultTitle is used whenever title generation fails or returns nothing.
const DefaultTitle = "New Chat"

// EmptyReply replaces a completion that came back blank.
const EmptyReply = "I am here for you. Please try again."

const titleMaxTokens = 20

// cleanTitle trims whitespace, one pair of surrounding quotes and a single
// trailing sentence mark.
func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if title != "" && strings.ContainsRune(`"'`, rune(title[0])) {
		title = title[1:]
	}
	if n := len(title); n > 0 && strings.ContainsRune(`"'`, rune(title[n-1])) {
		title = title[:n-1]
	}
	if n := len(title); n > 0 && strings.ContainsRune(".!?", rune(title[n-1])) {
		title = title[:n-1]
	}
	return strings.TrimSpace(title)
}
