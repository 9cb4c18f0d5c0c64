package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ConfigurationError reports invalid client construction, e.g. an
// empty API key.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return "llm: " + e.Message }

// ValidationError reports a malformed input message list.
type ValidationError struct {
	// Index is the offending message position, or -1 when the list
	// itself is malformed rather than a single element.
	Index int

	// Reason completes the sentence "message at index i ...", or is
	// the whole message when Index is -1.
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return "llm: " + e.Reason
	}
	return fmt.Sprintf("llm: message at index %d %s", e.Index, e.Reason)
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type ErrorKind string

const (
	ErrKindAuth       ErrorKind = "auth"
	ErrKindRateLimit  ErrorKind = "rate_limit"
	ErrKindBadRequest ErrorKind = "bad_request"
	ErrKindNotFound   ErrorKind = "not_found"
	ErrKindServer     ErrorKind = "server"
	ErrKindTimeout    ErrorKind = "timeout"
	ErrKindCanceled   ErrorKind = "canceled"
	ErrKindTransport  ErrorKind = "transport"
	ErrKindParse      ErrorKind = "parse"
	ErrKindPayload    ErrorKind = "payload"
	ErrKindUnknown    ErrorKind = "unknown"
)

// ProviderError wraps every failure mode of the remote call: non-2xx
// HTTP status, transport-level failure, an undecodable response body,
// or a response missing the expected reply-text path.
//
// The fields carry enough context to diagnose a failure without
// re-executing the request: status code, method and URL when known,
// and the raw response body.
type ProviderError struct {
	Provider string
	Kind     ErrorKind

	// Method/URL identify the outbound request for transport-level
	// failures where no HTTP status exists.
	Method string
	URL    string

	// StatusCode is 0 when the request failed before a response.
	StatusCode int

	Message string

	// Raw is the response body when one was read.
	Raw []byte

	Cause error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var b strings.Builder
	if strings.TrimSpace(e.Provider) != "" {
		b.WriteString(e.Provider)
	} else {
		b.WriteString("llm")
	}
	b.WriteString(": ")

	switch {
	case e.StatusCode != 0:
		b.WriteString(fmt.Sprintf("request failed: http %d", e.StatusCode))
		if t := http.StatusText(e.StatusCode); t != "" {
			b.WriteString(" ")
			b.WriteString(t)
		}
	case e.Method != "" || e.URL != "":
		b.WriteString("http error during ")
		b.WriteString(strings.TrimSpace(e.Method + " " + e.URL))
	default:
		b.WriteString("request failed")
	}

	if msg := strings.TrimSpace(e.Message); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	if e.Kind == ErrKindPayload && len(e.Raw) > 0 {
		// The full body is the only way to diagnose a shape mismatch.
		b.WriteString(": ")
		b.Write(e.Raw)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error { return e.Cause }

func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsAuth 判断是否为认证错误
func IsAuth(err error) bool {
	pe, ok := AsProviderError(err)
	if !ok {
		return false
	}
	return pe.Kind == ErrKindAuth ||
		pe.StatusCode == http.StatusUnauthorized || pe.StatusCode == http.StatusForbidden
}

// IsRateLimit 判断是否为限流错误
func IsRateLimit(err error) bool {
	pe, ok := AsProviderError(err)
	if !ok {
		return false
	}
	return pe.Kind == ErrKindRateLimit || pe.StatusCode == http.StatusTooManyRequests
}

// IsTemporary 判断是否为临时错误（调用方可据此决定重试策略）
func IsTemporary(err error) bool {
	pe, ok := AsProviderError(err)
	if !ok {
		return false
	}
	if pe.Kind == ErrKindTimeout {
		return true
	}
	switch pe.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
