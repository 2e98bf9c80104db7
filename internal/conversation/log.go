package conversation

import "strings"

// Kind identifies turn variants in the conversation log.
type Kind string

const (
	KindDivider Kind = "divider"
	KindUser    Kind = "user"
	KindBot     Kind = "bot"
)

// Turn is a single entry in the log: either a session divider or a message.
// The Kind tag is exhaustive; Text carries the message body or, for
// dividers, the human-readable timestamp.
type Turn struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Log is an ordered, append-only sequence of turns. It is not safe for
// concurrent use; the owning session serializes access.
type Log struct {
	turns []Turn
}

// NewLog returns a log containing exactly one divider with the given
// timestamp. Called once per login.
func NewLog(timestamp string) *Log {
	l := &Log{}
	l.Reset(timestamp)
	return l
}

// Reset replaces the contents with a single fresh divider.
func (l *Log) Reset(timestamp string) {
	l.turns = []Turn{{Kind: KindDivider, Text: timestamp}}
}

// AppendUser appends a user message at the tail. Blank text (after trimming)
// is rejected as a no-op; the return value reports whether an entry was added.
func (l *Log) AppendUser(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	l.turns = append(l.turns, Turn{Kind: KindUser, Text: text})
	return true
}

// AppendBot appends a bot message at the tail. Empty replies are kept; the
// backend may legitimately return an empty string and it still counts as a
// turn. Suppression of empty bubbles is a caller policy, not the log's.
func (l *Log) AppendBot(text string) {
	l.turns = append(l.turns, Turn{Kind: KindBot, Text: text})
}

// Turns returns a copy of the entries in insertion order.
func (l *Log) Turns() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len reports the number of entries.
func (l *Log) Len() int { return len(l.turns) }
