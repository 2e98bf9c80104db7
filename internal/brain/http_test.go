package brain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPAdapterSendTurn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var req TurnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.UserID != "user_1" || req.UserName != "Ava" || req.Message != "How are you?" {
			t.Errorf("unexpected request payload: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(TurnResponse{Reply: "I'm well", Emotion: "joy"})
	}))
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL + "/chat")
	resp, err := a.SendTurn(context.Background(), TurnRequest{
		UserID:   "user_1",
		UserName: "Ava",
		Message:  "How are you?",
	})
	if err != nil {
		t.Fatalf("SendTurn() error = %v", err)
	}
	if resp.Reply != "I'm well" || resp.Emotion != "joy" {
		t.Fatalf("SendTurn() = %+v", resp)
	}
}

func TestHTTPAdapterOmittedEmotion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"reply":"hello"}`))
	}))
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL + "/chat")
	resp, err := a.SendTurn(context.Background(), TurnRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("SendTurn() error = %v", err)
	}
	if resp.Emotion != "" {
		t.Fatalf("Emotion = %q, want empty", resp.Emotion)
	}
}

func TestHTTPAdapterStatusErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL + "/chat")
	_, err := a.SendTurn(context.Background(), TurnRequest{Message: "hi"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestHTTPAdapterMalformedBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL + "/chat")
	_, err := a.SendTurn(context.Background(), TurnRequest{Message: "hi"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestHTTPAdapterTransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	a := NewHTTPAdapter(srv.URL + "/chat")
	_, err := a.SendTurn(context.Background(), TurnRequest{Message: "hi"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
}

func TestHTTPAdapterEndSession(t *testing.T) {
	var got SessionSummary
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/end_session" {
			t.Errorf("path = %q, want /end_session", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"status":"saved"}`))
	}))
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL + "/chat")
	err := a.EndSession(context.Background(), SessionSummary{
		UserID:   "user_1",
		Emotions: map[string]int{"joy": 2},
	})
	if err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	if got.UserID != "user_1" || got.Emotions["joy"] != 2 {
		t.Fatalf("summary payload = %+v", got)
	}
}

func TestSiblingEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:8000/chat", "http://localhost:8000/end_session"},
		{"http://localhost:8000/api/chat", "http://localhost:8000/api/end_session"},
		{"http://localhost:8000", "http://localhost:8000/end_session"},
		{"http://localhost:8000/", "http://localhost:8000/end_session"},
	}
	for _, tt := range tests {
		if got := siblingEndpoint(tt.in, "end_session"); got != tt.want {
			t.Fatalf("siblingEndpoint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
