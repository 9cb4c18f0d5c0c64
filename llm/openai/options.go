package openai

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Aquamariss/case-check-city-snap/llm/internal/transport"
)

type Option func(*Client) error

// WithBaseURL points the client at a different OpenAI-compatible
// endpoint. Trailing slashes are stripped so the completions path
// joins cleanly.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if trimmed == "" {
			return errors.New("openai: base URL must not be empty")
		}
		tr, err := transport.New(trimmed, c.tr.HTTPClient)
		if err != nil {
			return err
		}
		tr.DefaultHeaders = c.tr.DefaultHeaders.Clone()
		tr.UserAgent = c.tr.UserAgent
		tr.Logger = c.tr.Logger
		c.tr = tr
		return nil
	}
}

func WithModel(model string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(model) != "" {
			c.model = model
		}
		return nil
	}
}

// WithTimeout bounds each Generate call. The transport enforces it via
// the request context, so a timed-out call fails instead of hanging.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("openai: timeout must be positive")
		}
		c.timeout = d
		return nil
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc != nil {
			c.tr.HTTPClient = hc
		}
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.tr.Logger = logger
		}
		return nil
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.tr.UserAgent = ua
		return nil
	}
}

// WithCompletionsPath overrides the fixed /chat/completions path for
// gateways that expose the protocol under a different prefix.
func WithCompletionsPath(path string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(path) == "" {
			return errors.New("openai: completions path must not be empty")
		}
		c.path = path
		return nil
	}
}

func WithDefaultHeader(key, value string) Option {
	return func(c *Client) error {
		c.tr.DefaultHeaders.Add(key, value)
		return nil
	}
}
