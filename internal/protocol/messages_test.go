package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseClientMessageChat(t *testing.T) {
	raw := []byte(`{"type":"chat_message","requestId":"r1","message":"I grew up in Multan","language":"en","sessionId":"s1","personId":"p1","conversationHistory":[{"userText":"hi","aiText":"hello"}]}`)
	msg, err := ParseClientMessage(raw)
	if err != nil {
		t.Fatalf("ParseClientMessage() error = %v", err)
	}

	chat, ok := msg.(ChatMessage)
	if !ok {
		t.Fatalf("message type = %T, want ChatMessage", msg)
	}
	if chat.SessionID != "s1" || chat.PersonID != "p1" || chat.RequestID != "r1" {
		t.Fatalf("unexpected chat message: %+v", chat)
	}
	if len(chat.History) != 1 || chat.History[0].AIText != "hello" {
		t.Fatalf("History = %+v, want one entry", chat.History)
	}
}

func TestParseClientMessageRejectsUnknownType(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":"client_audio_chunk"}`))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("error = %v, want ErrUnsupportedType", err)
	}
}

func TestParseClientMessageRejectsBlankMessage(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":"chat_message","message":"   "}`))
	if err == nil {
		t.Fatalf("expected error for blank message")
	}
	if errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("error = %v, want validation error", err)
	}
}

func TestParseClientMessageRejectsInvalidJSON(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":`))
	if err == nil || !strings.Contains(err.Error(), "invalid envelope") {
		t.Fatalf("error = %v, want invalid envelope", err)
	}
}

func TestServerMessagesCarryType(t *testing.T) {
	reply, err := json.Marshal(NewAssistantReply("r1", "s1", "Where did you grow up?"))
	if err != nil {
		t.Fatalf("Marshal(reply) error = %v", err)
	}
	if !strings.Contains(string(reply), `"type":"assistant_reply"`) {
		t.Fatalf("reply = %s, want assistant_reply type", reply)
	}

	event, err := json.Marshal(NewErrorEvent("", "s1", CodeInvalidInput, "message is required", false))
	if err != nil {
		t.Fatalf("Marshal(event) error = %v", err)
	}
	if !strings.Contains(string(event), `"type":"error_event"`) || !strings.Contains(string(event), `"code":"invalid_input"`) {
		t.Fatalf("event = %s, want error_event with code", event)
	}
}
