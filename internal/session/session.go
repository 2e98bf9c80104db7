package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/empathlabs/empath/internal/archive"
	"github.com/empathlabs/empath/internal/brain"
	"github.com/empathlabs/empath/internal/conversation"
	"github.com/empathlabs/empath/internal/identity"
	"github.com/empathlabs/empath/internal/observability"
	"github.com/empathlabs/empath/internal/theme"
)

// Phase is the lifecycle state of the session.
type Phase string

const (
	PhaseUnauthenticated Phase = "unauthenticated"
	PhaseInitializing    Phase = "initializing"
	PhaseActive          Phase = "active"
)

// Lifecycle errors. Callers in the HTTP layer translate these; the send path
// deliberately does not use them because rejected sends are silent no-ops.
var (
	ErrEmptyName    = errors.New("display name must not be empty")
	ErrInvalidPhase = errors.New("operation not valid in current phase")
)

// RejectReason explains why Send declined a message without dispatching it.
type RejectReason string

const (
	RejectNone     RejectReason = ""
	RejectEmpty    RejectReason = "empty"
	RejectBusy     RejectReason = "busy"
	RejectInactive RejectReason = "inactive"
)

// connectionErrorText is the synthetic bot message shown when the backend
// cannot be reached. Kept identical to the browser client's copy.
const connectionErrorText = "Connection error."

// Snapshot is the immutable view of session state handed to the renderer.
type Snapshot struct {
	Phase        Phase               `json:"phase"`
	DisplayName  string              `json:"display_name,omitempty"`
	UserID       string              `json:"user_id"`
	Turns        []conversation.Turn `json:"turns"`
	Emotion      string              `json:"emotion"`
	Theme        theme.Descriptor    `json:"theme"`
	Awaiting     bool                `json:"awaiting"`
	EmotionTally map[string]int      `json:"emotion_tally,omitempty"`
}

// Options tune orchestrator policy.
type Options struct {
	// Clock supplies divider timestamps; defaults to time.Now. Injectable
	// for tests.
	Clock func() time.Time
	// KeepEmptyReplies controls whether an empty-string bot reply is still
	// appended as a visible turn. The browser client keeps them, so that is
	// the default.
	KeepEmptyReplies bool
	// ArchiveTimeout bounds best-effort history writes.
	ArchiveTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.ArchiveTimeout <= 0 {
		o.ArchiveTimeout = 5 * time.Second
	}
	return o
}

// DefaultOptions matches the browser client's behavior.
func DefaultOptions() Options {
	return Options{KeepEmptyReplies: true}.withDefaults()
}

// Session owns all mutable conversation state: identity, phase, the
// append-only log, the current emotion, and the single in-flight turn gate.
// All mutation flows through its methods; the renderer only ever sees
// snapshots.
type Session struct {
	ids     *identity.Store
	adapter brain.Adapter
	history archive.Store
	metrics *observability.Metrics
	opts    Options

	mu       sync.Mutex
	phase    Phase
	name     string
	userID   string
	log      *conversation.Log
	emotion  string
	tally    map[string]int
	awaiting bool
	// epoch increments on login and logout so a turn completing after the
	// session was reset cannot write into the new session's state.
	epoch int

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

// New loads persisted identity and derives the startup phase: Active when a
// display name survived from a previous run, Unauthenticated otherwise.
func New(ids *identity.Store, adapter brain.Adapter, history archive.Store, metrics *observability.Metrics, opts Options) *Session {
	opts = opts.withDefaults()

	s := &Session{
		ids:     ids,
		adapter: adapter,
		history: history,
		metrics: metrics,
		opts:    opts,
		log:     &conversation.Log{},
		emotion: theme.Neutral,
		tally:   make(map[string]int),
		subs:    make(map[int]chan Snapshot),
	}

	id := ids.Load()
	s.userID = id.UserID
	if id.DisplayName != "" {
		s.name = id.DisplayName
		s.phase = PhaseActive
		s.log.Reset(s.timestamp())
	} else {
		s.phase = PhaseUnauthenticated
	}
	s.setPhaseGauge()
	return s
}

// Login persists the display name, resets the conversation log with a fresh
// divider, and enters the Initializing phase. Blank names are rejected.
func (s *Session) Login(name string) error {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	if s.phase != PhaseUnauthenticated {
		s.mu.Unlock()
		return ErrInvalidPhase
	}

	s.ids.SaveName(clean)
	s.name = clean
	s.phase = PhaseInitializing
	s.log.Reset(s.timestamp())
	s.emotion = theme.Neutral
	s.tally = make(map[string]int)
	s.awaiting = false
	s.epoch++
	s.setPhaseGauge()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("login").Inc()
	}
	s.notify()
	return nil
}

// CompleteInit moves Initializing to Active. It is a pure UX gate: no I/O,
// no backend dependency.
func (s *Session) CompleteInit() error {
	s.mu.Lock()
	if s.phase != PhaseInitializing {
		s.mu.Unlock()
		return ErrInvalidPhase
	}
	s.phase = PhaseActive
	s.setPhaseGauge()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("ready").Inc()
	}
	s.notify()
	return nil
}

// Logout wipes the persisted display name and resets all session state. The
// user id is retained. The emotion tally is reported to the backend best
// effort before being discarded.
func (s *Session) Logout() {
	s.mu.Lock()
	if s.phase == PhaseUnauthenticated {
		s.mu.Unlock()
		return
	}

	s.ids.ClearName()
	summary := brain.SessionSummary{UserID: s.userID, Emotions: s.tally}

	s.name = ""
	s.phase = PhaseUnauthenticated
	s.log = &conversation.Log{}
	s.emotion = theme.Neutral
	s.tally = make(map[string]int)
	s.awaiting = false
	s.epoch++
	s.setPhaseGauge()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("logout").Inc()
	}
	s.notify()

	// Single attempt, off the caller's path. A lost summary only costs the
	// backend some long-term color.
	if len(summary.Emotions) > 0 {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.adapter.EndSession(ctx, summary); err != nil {
				log.Printf("session: end-session summary not delivered: %v", err)
			}
		}()
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	tally := make(map[string]int, len(s.tally))
	for k, v := range s.tally {
		tally[k] = v
	}
	return Snapshot{
		Phase:        s.phase,
		DisplayName:  s.name,
		UserID:       s.userID,
		Turns:        s.log.Turns(),
		Emotion:      s.emotion,
		Theme:        theme.Resolve(s.emotion),
		Awaiting:     s.awaiting,
		EmotionTally: tally,
	}
}

// UserID returns the stable anonymous user id.
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Subscribe registers a listener that receives a snapshot after every state
// change. Slow listeners miss intermediate snapshots rather than blocking
// the session.
func (s *Session) Subscribe() (int, <-chan Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 8)
	s.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a listener and closes its channel.
func (s *Session) Unsubscribe(id int) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Session) notify() {
	snap := s.Snapshot()
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Session) timestamp() string {
	return s.opts.Clock().Format("Monday, January 2, 2006, 3:04 PM")
}

func (s *Session) setPhaseGauge() {
	if s.metrics == nil {
		return
	}
	var v float64
	switch s.phase {
	case PhaseInitializing:
		v = 1
	case PhaseActive:
		v = 2
	}
	s.metrics.SessionPhase.Set(v)
}
