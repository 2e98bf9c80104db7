package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPAdapter talks to the inference backend's /chat endpoint. One POST per
// turn, fail fast, no retries and no caching.
type HTTPAdapter struct {
	chatURL       string
	endSessionURL string
	client        *http.Client
}

func NewHTTPAdapter(chatURL string) *HTTPAdapter {
	return NewHTTPAdapterWithTimeout(chatURL, 0)
}

func NewHTTPAdapterWithTimeout(chatURL string, timeout time.Duration) *HTTPAdapter {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	chatURL = strings.TrimSpace(chatURL)
	return &HTTPAdapter{
		chatURL:       chatURL,
		endSessionURL: siblingEndpoint(chatURL, "end_session"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (a *HTTPAdapter) SendTurn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	body, err := a.post(ctx, a.chatURL, req)
	if err != nil {
		return TurnResponse{}, err
	}

	var resp TurnResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return TurnResponse{}, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func (a *HTTPAdapter) EndSession(ctx context.Context, summary SessionSummary) error {
	_, err := a.post(ctx, a.endSessionURL, summary)
	return err
}

func (a *HTTPAdapter) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, res.StatusCode, string(snippet))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	return body, nil
}

// siblingEndpoint swaps the final path segment of the chat URL, so
// http://host:8000/chat yields http://host:8000/end_session. A pathless URL
// gets the segment appended at the root.
func siblingEndpoint(chatURL, segment string) string {
	u, err := url.Parse(chatURL)
	if err != nil {
		return chatURL
	}
	idx := strings.LastIndex(u.Path, "/")
	if idx < 0 {
		u.Path = "/" + segment
	} else {
		u.Path = u.Path[:idx+1] + segment
	}
	return u.String()
}
