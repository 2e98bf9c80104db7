package conversation

import "testing"

func TestNewLogContainsSingleDivider(t *testing.T) {
	l := NewLog("Monday, January 5, 2026, 9:00 AM")
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
	turns := l.Turns()
	if turns[0].Kind != KindDivider {
		t.Fatalf("first turn kind = %q, want %q", turns[0].Kind, KindDivider)
	}
	if turns[0].Text != "Monday, January 5, 2026, 9:00 AM" {
		t.Fatalf("divider text = %q", turns[0].Text)
	}
}

func TestAppendOrdering(t *testing.T) {
	l := NewLog("t0")
	if !l.AppendUser("hello") {
		t.Fatalf("AppendUser(hello) rejected")
	}
	l.AppendBot("hi")

	turns := l.Turns()
	if len(turns) != 3 {
		t.Fatalf("len = %d, want 3", len(turns))
	}
	if turns[1].Kind != KindUser || turns[1].Text != "hello" {
		t.Fatalf("turn[1] = %+v, want user/hello", turns[1])
	}
	if turns[2].Kind != KindBot || turns[2].Text != "hi" {
		t.Fatalf("turn[2] = %+v, want bot/hi", turns[2])
	}
}

func TestAppendUserRejectsBlank(t *testing.T) {
	l := NewLog("t0")
	for _, text := range []string{"", "   ", "\n\t"} {
		if l.AppendUser(text) {
			t.Fatalf("AppendUser(%q) accepted, want rejected", text)
		}
	}
	if l.Len() != 1 {
		t.Fatalf("Len() = %d after rejected appends, want 1", l.Len())
	}
}

func TestAppendBotKeepsEmptyReply(t *testing.T) {
	l := NewLog("t0")
	l.AppendBot("")
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
}

func TestTurnsReturnsCopy(t *testing.T) {
	l := NewLog("t0")
	l.AppendUser("hello")
	turns := l.Turns()
	turns[0].Text = "mutated"
	if got := l.Turns()[0].Text; got != "t0" {
		t.Fatalf("divider text = %q after external mutation, want t0", got)
	}
}

func TestResetReplacesContents(t *testing.T) {
	l := NewLog("t0")
	l.AppendUser("hello")
	l.AppendBot("hi")
	l.Reset("t1")
	if l.Len() != 1 {
		t.Fatalf("Len() = %d after reset, want 1", l.Len())
	}
	if got := l.Turns()[0]; got.Kind != KindDivider || got.Text != "t1" {
		t.Fatalf("turn after reset = %+v, want divider/t1", got)
	}
}
