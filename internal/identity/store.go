package identity

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Storage keys, kept byte-compatible with the browser client's localStorage.
const (
	keyDisplayName = "chat_user"
	keyUserID      = "chat_user_id"
)

// Identity is the persisted pairing of a user-chosen display name and a
// generated opaque user id. The id is never user-visible; it exists so the
// backend can correlate a person across sessions.
type Identity struct {
	DisplayName string `json:"display_name"`
	UserID      string `json:"user_id"`
}

// Store persists identity in a small JSON key-value file. When the state
// directory is unusable the store degrades to memory-only for the process
// lifetime; identity then simply does not survive a restart.
type Store struct {
	mu     sync.Mutex
	path   string // empty means memory-only
	values map[string]string
}

// NewStore opens (or creates) the identity file under dir. It never fails:
// any storage problem is logged and answered with a memory-only store.
func NewStore(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		return NewMemoryStore()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("identity: state dir unavailable, using memory-only store: %v", err)
		return NewMemoryStore()
	}

	s := &Store{
		path:   filepath.Join(dir, "identity.json"),
		values: make(map[string]string),
	}

	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.values); err != nil {
			log.Printf("identity: corrupt identity file, starting fresh: %v", err)
			s.values = make(map[string]string)
		}
	case os.IsNotExist(err):
		// First run.
	default:
		log.Printf("identity: identity file unreadable, using memory-only store: %v", err)
		return NewMemoryStore()
	}

	return s
}

// NewMemoryStore returns a store that never touches disk.
func NewMemoryStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Load returns the persisted identity. The display name may be empty when no
// login has happened yet; the user id is generated and persisted on first
// load, independent of login state.
func (s *Store) Load() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.values[keyUserID]
	if id == "" {
		id = "user_" + uuid.NewString()
		s.values[keyUserID] = id
		s.persistLocked()
	}

	return Identity{
		DisplayName: s.values[keyDisplayName],
		UserID:      id,
	}
}

// SaveName persists the display name, overwriting any prior value.
func (s *Store) SaveName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[keyDisplayName] = name
	s.persistLocked()
}

// ClearName removes the display name only. The user id is retained so the
// backend keeps its long-term memory of the person across logins.
func (s *Store) ClearName() {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, keyDisplayName)
	s.persistLocked()
}

// persistLocked writes the key-value map to disk, best effort. A write
// failure downgrades the session to non-persisted identity; it must never
// surface to the user.
func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		log.Printf("identity: marshal failed: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		log.Printf("identity: persist failed, continuing in memory: %v", err)
		s.path = ""
	}
}
