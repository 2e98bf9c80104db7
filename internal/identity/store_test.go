package identity

import (
	"os"
	"strings"
	"testing"
)

func TestLoadGeneratesStableUserID(t *testing.T) {
	s := NewStore(t.TempDir())

	first := s.Load()
	if first.UserID == "" {
		t.Fatalf("UserID should be generated on first load")
	}
	if !strings.HasPrefix(first.UserID, "user_") {
		t.Fatalf("UserID = %q, want user_ prefix", first.UserID)
	}
	if first.DisplayName != "" {
		t.Fatalf("DisplayName = %q before login, want empty", first.DisplayName)
	}

	second := s.Load()
	if second.UserID != first.UserID {
		t.Fatalf("UserID changed between loads: %q vs %q", first.UserID, second.UserID)
	}
}

func TestIdentitySurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	original := s.Load()
	s.SaveName("Ava")

	reopened := NewStore(dir)
	got := reopened.Load()
	if got.DisplayName != "Ava" {
		t.Fatalf("DisplayName = %q after reopen, want Ava", got.DisplayName)
	}
	if got.UserID != original.UserID {
		t.Fatalf("UserID = %q after reopen, want %q", got.UserID, original.UserID)
	}
}

func TestSaveNameOverwrites(t *testing.T) {
	s := NewStore(t.TempDir())
	s.SaveName("Ava")
	s.SaveName("Noor")
	if got := s.Load().DisplayName; got != "Noor" {
		t.Fatalf("DisplayName = %q, want Noor", got)
	}
}

func TestClearNameRetainsUserID(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	id := s.Load().UserID
	s.SaveName("Ava")
	s.ClearName()

	got := NewStore(dir).Load()
	if got.DisplayName != "" {
		t.Fatalf("DisplayName = %q after clear, want empty", got.DisplayName)
	}
	if got.UserID != id {
		t.Fatalf("UserID = %q after clear, want %q", got.UserID, id)
	}
}

func TestMemoryStoreDegradation(t *testing.T) {
	s := NewMemoryStore()
	s.SaveName("Ava")
	got := s.Load()
	if got.DisplayName != "Ava" || got.UserID == "" {
		t.Fatalf("memory store load = %+v", got)
	}
}

func TestCorruptFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	s.SaveName("Ava")

	// Overwrite the identity file with garbage and reopen.
	path := s.path
	if path == "" {
		t.Fatalf("expected a file-backed store")
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("corrupt write failed: %v", err)
	}

	got := NewStore(dir).Load()
	if got.DisplayName != "" {
		t.Fatalf("DisplayName = %q from corrupt file, want empty", got.DisplayName)
	}
	if got.UserID == "" {
		t.Fatalf("UserID should be regenerated after corruption")
	}
}
