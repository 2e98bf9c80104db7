package session

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/empathlabs/empath/internal/archive"
	"github.com/empathlabs/empath/internal/brain"
	"github.com/empathlabs/empath/internal/policy"
	"github.com/empathlabs/empath/internal/theme"
)

// Send runs one conversation turn: append the user message, dispatch to the
// backend, and fold the reply (or a synthetic connection-error message) back
// into the log.
//
// It rejects without side effects when the text is blank, a turn is already
// in flight, or the session is not Active. The user message is appended
// before the network call, so it stays visible even if the backend never
// answers. Completion (log append, emotion update, clearing the in-flight
// flag) happens under one lock acquisition, so no observer sees a
// half-applied turn.
func (s *Session) Send(ctx context.Context, text string) (bool, RejectReason) {
	s.mu.Lock()
	if s.phase != PhaseActive {
		s.mu.Unlock()
		s.countRejected(RejectInactive)
		return false, RejectInactive
	}
	if s.awaiting {
		s.mu.Unlock()
		s.countRejected(RejectBusy)
		return false, RejectBusy
	}
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		s.countRejected(RejectEmpty)
		return false, RejectEmpty
	}

	s.log.AppendUser(text)
	s.awaiting = true
	epoch := s.epoch
	req := brain.TurnRequest{
		UserID:   s.userID,
		UserName: s.name,
		Message:  text,
	}
	s.mu.Unlock()

	s.notify()
	s.archiveBestEffort(archive.TurnRecord{
		UserID:  req.UserID,
		Sender:  "user",
		Message: text,
	})

	// The only suspension point of the turn. No retries: a failed turn asks
	// the user to resend.
	started := time.Now()
	resp, err := s.adapter.SendTurn(ctx, req)
	elapsed := time.Since(started)

	s.mu.Lock()
	if s.epoch != epoch {
		// The session was logged out (and possibly back in) while the turn
		// was in flight. The old conversation no longer exists; drop the
		// result instead of contaminating the new one.
		s.mu.Unlock()
		return true, RejectNone
	}

	outcome := "ok"
	var botText, emotion string
	if err != nil {
		outcome = "failed"
		botText = connectionErrorText
		s.log.AppendBot(botText)
	} else {
		botText = resp.Reply
		if botText != "" || s.opts.KeepEmptyReplies {
			s.log.AppendBot(botText)
		}
		if resp.Emotion != "" {
			emotion = resp.Emotion
			s.emotion = emotion
			s.tally[emotion]++
		}
	}
	s.awaiting = false
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.Turns.WithLabelValues(outcome).Inc()
		s.metrics.ObserveTurnLatency(elapsed)
		if emotion != "" {
			s.metrics.EmotionChanges.WithLabelValues(normalizeLabel(emotion)).Inc()
		}
	}
	if err != nil {
		log.Printf("session: turn failed for %s: %v", req.UserID, err)
	}
	s.notify()

	if err == nil {
		s.archiveBestEffort(archive.TurnRecord{
			UserID:  req.UserID,
			Sender:  "bot",
			Message: botText,
			Emotion: emotion,
		})
	}
	return true, RejectNone
}

// archiveBestEffort persists a turn without ever failing the conversation.
// Archived history outlives the session, so obvious PII is masked before it
// is written; the in-session log keeps the raw text.
func (s *Session) archiveBestEffort(record archive.TurnRecord) {
	if s.history == nil {
		return
	}
	record.Message, record.Redacted = policy.RedactPII(record.Message)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.ArchiveTimeout)
		defer cancel()
		if err := s.history.SaveTurn(ctx, record); err != nil {
			log.Printf("session: archive save failed: %v", err)
		}
	}()
}

func (s *Session) countRejected(reason RejectReason) {
	if s.metrics != nil {
		s.metrics.RejectedSends.WithLabelValues(string(reason)).Inc()
	}
}

// normalizeLabel keeps the metrics label space bounded: anything outside the
// recognized emotion set is reported as "unknown".
func normalizeLabel(label string) string {
	if theme.Known(label) {
		return label
	}
	return "unknown"
}
