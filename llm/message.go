package llm

import "strings"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn. The role label is free-form on
// purpose: providers accept roles beyond the well-known constants.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func System(text string) Message    { return Message{Role: RoleSystem, Content: text} }
func User(text string) Message      { return Message{Role: RoleUser, Content: text} }
func Assistant(text string) Message { return Message{Role: RoleAssistant, Content: text} }

// Normalize validates an ordered message list and returns a copy
// carrying only the role/content fields, in the original order.
//
// A nil list is rejected with the sequence-level ValidationError; an
// empty list is not (whether an empty conversation can be sent is the
// provider's call). Role and content must be non-blank; the content
// itself is passed through untouched.
func Normalize(messages []Message) ([]Message, error) {
	if messages == nil {
		return nil, errNotSequence()
	}

	out := make([]Message, 0, len(messages))
	for i, m := range messages {
		if strings.TrimSpace(string(m.Role)) == "" {
			return nil, &ValidationError{Index: i, Reason: "is missing a valid role"}
		}
		if strings.TrimSpace(m.Content) == "" {
			return nil, &ValidationError{Index: i, Reason: "is missing text content"}
		}
		out = append(out, Message{Role: m.Role, Content: m.Content})
	}
	return out, nil
}

// NormalizeAny validates externally supplied data (decoded JSON,
// template output) that should describe a message list. The same rules
// as Normalize apply; additionally the input must actually be a
// sequence of string-keyed mappings, and mapping keys beyond
// role/content are dropped.
func NormalizeAny(v any) ([]Message, error) {
	switch x := v.(type) {
	case []Message:
		return Normalize(x)
	case []any:
		return normalizeElems(x)
	case []map[string]any:
		elems := make([]any, len(x))
		for i := range x {
			elems[i] = x[i]
		}
		return normalizeElems(elems)
	case []map[string]string:
		elems := make([]any, len(x))
		for i := range x {
			elems[i] = x[i]
		}
		return normalizeElems(elems)
	default:
		return nil, errNotSequence()
	}
}

func normalizeElems(elems []any) ([]Message, error) {
	out := make([]Message, 0, len(elems))
	for i, el := range elems {
		m, ok := mapping(el)
		if !ok {
			return nil, &ValidationError{Index: i, Reason: "is not a mapping"}
		}

		role, _ := m["role"].(string)
		content, _ := m["content"].(string)
		if strings.TrimSpace(role) == "" {
			return nil, &ValidationError{Index: i, Reason: "is missing a valid role"}
		}
		if strings.TrimSpace(content) == "" {
			return nil, &ValidationError{Index: i, Reason: "is missing text content"}
		}
		out = append(out, Message{Role: Role(role), Content: content})
	}
	return out, nil
}

func mapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	case Message:
		return map[string]any{"role": string(m.Role), "content": m.Content}, true
	default:
		return nil, false
	}
}

func errNotSequence() *ValidationError {
	return &ValidationError{Index: -1, Reason: "messages must be a sequence of mapping objects"}
}
