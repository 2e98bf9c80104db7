package archive

import (
	"context"
	"time"
)

// TurnRecord is one archived user or bot message, keyed by the stable user
// id so history accumulates across logins.
type TurnRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Sender    string    `json:"sender"` // "user" or "bot"
	Message   string    `json:"message"`
	Emotion   string    `json:"emotion,omitempty"`
	Redacted  bool      `json:"redacted,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists and retrieves conversation history. Archiving is best
// effort: a failing store must never fail a turn.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	RecentTurns(ctx context.Context, userID string, limit int) ([]TurnRecord, error)
	Close() error
}
