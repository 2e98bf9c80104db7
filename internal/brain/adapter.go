package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnavailable is returned for any transport failure, non-success status,
// or malformed response from the inference backend. Callers recover it into
// a synthetic bot message; it never crosses the orchestrator as a crash.
var ErrUnavailable = errors.New("brain backend unavailable")

// TurnRequest is the per-turn payload sent to the backend.
type TurnRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Message  string `json:"message"`
}

// TurnResponse carries the reply text and, optionally, the emotion label the
// backend classified for it. Emotion is empty when the backend omits it.
type TurnResponse struct {
	Reply   string `json:"reply"`
	Emotion string `json:"emotion,omitempty"`
}

// SessionSummary reports the emotion tallies observed during a session so
// the backend can fold them into its long-term memory.
type SessionSummary struct {
	UserID   string         `json:"user_id"`
	Emotions map[string]int `json:"emotions"`
}

// Adapter bridges the session runtime with the inference backend. SendTurn
// issues exactly one request per call; retry policy, if any, belongs to the
// caller (and in this design there is none).
type Adapter interface {
	SendTurn(ctx context.Context, req TurnRequest) (TurnResponse, error)
	EndSession(ctx context.Context, summary SessionSummary) error
}

// Config controls adapter construction.
type Config struct {
	Mode string
	URL  string
	// Timeout bounds each backend call; zero means the adapter default.
	Timeout time.Duration
}

// NewAdapter builds an adapter for the configured mode. "auto" picks HTTP
// when a URL is configured and falls back to the mock otherwise.
func NewAdapter(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.URL) != "" {
			return NewHTTPAdapterWithTimeout(cfg.URL, cfg.Timeout), nil
		}
		return NewMockAdapter(), nil
	case "http":
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, errors.New("brain URL is required for http mode")
		}
		return NewHTTPAdapterWithTimeout(cfg.URL, cfg.Timeout), nil
	case "mock":
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported brain adapter mode %q", cfg.Mode)
	}
}
