package openai

import (
	"encoding/json"

	"github.com/Aquamariss/case-check-city-snap/llm"
)

// Wire payloads for the Chat Completions endpoint. Responses are
// decoded dynamically in client.go so a shape mismatch can report the
// whole body; only the request and the error envelope are typed.

type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Messages       []llm.Message  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type errorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func parseErrorEnvelope(raw []byte) (message string, code string) {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error == nil {
		return "", ""
	}
	if env.Error.Message != "" {
		message = env.Error.Message
	}
	if env.Error.Code != nil {
		code = stringify(env.Error.Code)
	}
	return message, code
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
