package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestResolve(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"https://api.openai.com/v1", "/chat/completions", "https://api.openai.com/v1/chat/completions"},
		{"https://api.openai.com/v1/", "/chat/completions", "https://api.openai.com/v1/chat/completions"},
		{"https://api.openai.com/v1", "chat/completions", "https://api.openai.com/v1/chat/completions"},
		{"https://example.test", "/v1/chat/completions", "https://example.test/v1/chat/completions"},
		{"https://example.test/gateway/openai", "/chat/completions", "https://example.test/gateway/openai/chat/completions"},
	}

	for _, tt := range tests {
		c, err := New(tt.base, nil)
		if err != nil {
			t.Fatalf("New(%q) err=%v", tt.base, err)
		}
		if got := c.Resolve(tt.path); got != tt.want {
			t.Errorf("Resolve(%q, %q)=%q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestDoJSON_Success(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("X-Request-Id missing")
		}
		if got := r.Header.Get("Idempotency-Key"); got != r.Header.Get("X-Request-Id") {
			t.Errorf("Idempotency-Key=%q, want the request id", got)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "city-snap-llm/") {
			t.Errorf("User-Agent=%q", r.Header.Get("User-Agent"))
		}
		if got := r.Header.Get("X-Custom"); got != "yes" {
			t.Errorf("X-Custom=%q, default headers not merged", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"ping":"pong"}` {
			t.Errorf("body=%q", body)
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"ok":true}`)), Header: make(http.Header), Request: r}, nil
	})}

	c, err := New("https://example.test", hc)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	c.DefaultHeaders.Set("X-Custom", "yes")

	resp, raw, err := c.DoJSON(context.Background(), http.MethodPost, "/ping", nil, map[string]string{"ping": "pong"})
	if err != nil {
		t.Fatalf("DoJSON() err=%v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if string(raw) != `{"ok":true}` {
		t.Fatalf("raw=%q", raw)
	}
}

func TestDoJSON_StatusError(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusBadGateway, Body: io.NopCloser(strings.NewReader("upstream down")), Header: make(http.Header), Request: r}, nil
	})}

	c, err := New("https://example.test", hc)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	_, raw, err := c.DoJSON(context.Background(), http.MethodPost, "/ping", nil, nil)
	var se *HTTPStatusError
	if !errors.As(err, &se) {
		t.Fatalf("err=%v, want *HTTPStatusError", err)
	}
	if se.StatusCode != http.StatusBadGateway {
		t.Fatalf("StatusCode=%d", se.StatusCode)
	}
	if string(se.Body) != "upstream down" || string(raw) != "upstream down" {
		t.Fatalf("Body=%q raw=%q", se.Body, raw)
	}
}

func TestDoJSON_TransportError(t *testing.T) {
	cause := errors.New("no route to host")
	hc := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, cause
	})}

	c, err := New("https://example.test", hc)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	_, _, err = c.DoJSON(context.Background(), http.MethodPost, "/ping", nil, nil)
	if !errors.Is(err, cause) {
		t.Fatalf("err=%v, want wrapped %v", err, cause)
	}
}

func TestDoJSON_CallerHeadersWin(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if got := r.Header.Get("User-Agent"); got != "custom/1" {
			t.Errorf("User-Agent=%q, want caller override", got)
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("{}")), Header: make(http.Header), Request: r}, nil
	})}

	c, err := New("https://example.test", hc)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	hdr := make(http.Header)
	hdr.Set("User-Agent", "custom/1")
	if _, _, err := c.DoJSON(context.Background(), http.MethodPost, "/ping", hdr, nil); err != nil {
		t.Fatalf("DoJSON() err=%v", err)
	}
}
