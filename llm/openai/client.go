// Package openai implements a chat-completion client for the OpenAI
// Chat Completions API (and any endpoint speaking the same protocol).
//
// The client is deliberately thin: one validated POST per Generate
// call, no retries, no streaming. Configuration is frozen at New and
// a Client is safe for concurrent use.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Aquamariss/case-check-city-snap/llm"
	"github.com/Aquamariss/case-check-city-snap/llm/internal/transport"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4.1-mini"
	DefaultTimeout = 120 * time.Second

	completionsPath = "/chat/completions"
	providerName    = "openai"
)

type Client struct {
	apiKey  string
	model   string
	path    string
	timeout time.Duration

	tr *transport.Client
}

var _ llm.Generator = (*Client)(nil)

// New constructs a client. The API key is trimmed and must be
// non-empty; everything else has a default.
func New(apiKey string, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, &llm.ConfigurationError{Message: "openai provider requires a non-empty API key"}
	}

	tr, err := transport.New(DefaultBaseURL, nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		apiKey:  key,
		model:   DefaultModel,
		path:    completionsPath,
		timeout: DefaultTimeout,
		tr:      tr,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Generate sends one chat-completion request and returns the reply
// text found at choices[0].message.content, verbatim.
//
// The outbound body always instructs the provider to shape its reply
// as a JSON object (response_format json_object); the extracted text
// itself is not re-parsed here. Every failure is surfaced immediately:
// validation as *llm.ValidationError, everything about the remote call
// as *llm.ProviderError.
func (c *Client) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	normalized, err := llm.Normalize(messages)
	if err != nil {
		return "", err
	}
	if len(normalized) == 0 {
		return "", &llm.ValidationError{Index: -1, Reason: "messages must not be empty"}
	}

	body := chatCompletionRequest{
		Model:          c.model,
		Messages:       normalized,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, raw, err := c.tr.DoJSON(ctx, http.MethodPost, c.path, c.headers(), body)
	if err != nil {
		return "", c.mapError(err)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", &llm.ProviderError{
			Provider: providerName,
			Kind:     llm.ErrKindParse,
			Message:  "returned invalid JSON",
			Raw:      append([]byte(nil), raw...),
			Cause:    err,
		}
	}

	text, ok := replyText(data)
	if !ok {
		return "", &llm.ProviderError{
			Provider: providerName,
			Kind:     llm.ErrKindPayload,
			Message:  "returned unexpected payload structure",
			Raw:      append([]byte(nil), raw...),
		}
	}
	return text, nil
}

func (c *Client) headers() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", "Bearer "+c.apiKey)
	return h
}

// replyText walks choices[0].message.content.
func replyText(data any) (string, bool) {
	obj, ok := data.(map[string]any)
	if !ok {
		return "", false
	}
	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	msg, ok := first["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := msg["content"].(string)
	return content, ok
}

func (c *Client) mapError(err error) error {
	method := http.MethodPost
	urlStr := c.tr.Resolve(c.path)

	if errors.Is(err, context.Canceled) {
		return &llm.ProviderError{Provider: providerName, Kind: llm.ErrKindCanceled, Method: method, URL: urlStr, Message: "request canceled", Cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &llm.ProviderError{Provider: providerName, Kind: llm.ErrKindTimeout, Method: method, URL: urlStr, Message: "request deadline exceeded", Cause: err}
	}

	var se *transport.HTTPStatusError
	if errors.As(err, &se) {
		kind := classifyHTTP(se.StatusCode)
		msg, code := parseErrorEnvelope(se.Body)
		if code != "" {
			msg = msg + " (" + code + ")"
		}
		return &llm.ProviderError{
			Provider:   providerName,
			Kind:       kind,
			StatusCode: se.StatusCode,
			Message:    strings.TrimSpace(msg),
			Raw:        append([]byte(nil), se.Body...),
			Cause:      err,
		}
	}

	return &llm.ProviderError{Provider: providerName, Kind: llm.ErrKindTransport, Method: method, URL: urlStr, Cause: err}
}

func classifyHTTP(status int) llm.ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return llm.ErrKindAuth
	case http.StatusTooManyRequests:
		return llm.ErrKindRateLimit
	case http.StatusBadRequest:
		return llm.ErrKindBadRequest
	case http.StatusNotFound:
		return llm.ErrKindNotFound
	case http.StatusRequestTimeout:
		return llm.ErrKindTimeout
	default:
		if status >= 500 {
			return llm.ErrKindServer
		}
		return llm.ErrKindUnknown
	}
}
