package sources

import (
	"encoding/json"
	"strings"
)

// shapeMatcher extracts reply text from one known response shape.
type shapeMatcher func(v any) (string, bool)

// replyKeys are the flat object keys tried last, in order.
var replyKeys = []string{"reply", "response", "text", "output", "message", "delta"}

var matchers = []shapeMatcher{
	matchFlatString,
	matchGeneratedTextList,
	matchConversation,
	matchGeneratedText,
	matchChoices,
	matchReplyKeys,
}

// ExtractText returns the text of the first recognised shape in v.
func ExtractText(v any) (string, bool) {
	for _, m := range matchers {
		if s, ok := m(v); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

// ExtractBody decodes body as JSON and extracts text; a non-JSON body is taken
// as the reply itself.
func ExtractBody(body []byte) (string, bool) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		text := strings.TrimSpace(string(body))
		return text, text != ""
	}
	return ExtractText(v)
}

func matchFlatString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// [{"generated_text": "..."}] or ["..."]
func matchGeneratedTextList(v any) (string, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return "", false
	}
	switch first := arr[0].(type) {
	case string:
		return first, true
	case map[string]any:
		return stringField(first, "generated_text")
	}
	return "", false
}

// {"conversation": {"generated_responses": [..., "latest"]}}
func matchConversation(v any) (string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	conv, ok := obj["conversation"].(map[string]any)
	if !ok {
		return "", false
	}
	responses, ok := conv["generated_responses"].([]any)
	if !ok || len(responses) == 0 {
		return "", false
	}
	s, ok := responses[len(responses)-1].(string)
	return s, ok
}

func matchGeneratedText(v any) (string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	return stringField(obj, "generated_text")
}

// {"choices": [{"message": {"content": "..."}}]} or {"choices": [{"text": "..."}]}
func matchChoices(v any) (string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	if msg, ok := choice["message"].(map[string]any); ok {
		return stringField(msg, "content")
	}
	return stringField(choice, "text")
}

func matchReplyKeys(v any) (string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	for _, k := range replyKeys {
		if s, ok := stringField(obj, k); ok {
			return s, true
		}
	}
	return "", false
}

func stringField(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
