package brain

import (
	"context"
	"fmt"
	"strings"
)

// MockAdapter provides deterministic local replies when no backend is
// configured, with a tiny keyword-based emotion so the theme pipeline can be
// exercised end to end without inference.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (a *MockAdapter) SendTurn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	select {
	case <-ctx.Done():
		return TurnResponse{}, ctx.Err()
	default:
	}

	text := strings.TrimSpace(req.Message)
	if text == "" {
		return TurnResponse{Reply: "I'm listening.", Emotion: "neutral"}, nil
	}

	name := strings.TrimSpace(req.UserName)
	if name == "" {
		name = "friend"
	}

	return TurnResponse{
		Reply:   fmt.Sprintf("I hear you, %s: %s", name, text),
		Emotion: guessEmotion(text),
	}, nil
}

func (a *MockAdapter) EndSession(context.Context, SessionSummary) error { return nil }

func guessEmotion(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "sad") || strings.Contains(lower, "cry"):
		return "sadness"
	case strings.Contains(lower, "angry") || strings.Contains(lower, "furious"):
		return "anger"
	case strings.Contains(lower, "love"):
		return "love"
	case strings.Contains(lower, "scared") || strings.Contains(lower, "afraid"):
		return "fear"
	case strings.Contains(lower, "wow") || strings.Contains(lower, "?"):
		return "curiosity"
	case strings.Contains(lower, "!") || strings.Contains(lower, "great"):
		return "joy"
	default:
		return "neutral"
	}
}
