package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ent0n29/memoir/internal/memory"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeChatMessage    MessageType = "chat_message"
	TypeAssistantReply MessageType = "assistant_reply"
	TypeErrorEvent     MessageType = "error_event"
)

const (
	CodeInvalidMessage = "invalid_message"
	CodeInvalidInput   = "invalid_input"
	CodeInternal       = "internal"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ChatMessage is one user turn sent over the socket. SessionID may be empty on
// the first message; the reply carries the session to reuse.
type ChatMessage struct {
	Type      MessageType           `json:"type"`
	RequestID string                `json:"requestId,omitempty"`
	Message   string                `json:"message"`
	Language  string                `json:"language,omitempty"`
	SessionID string                `json:"sessionId,omitempty"`
	PersonID  string                `json:"personId,omitempty"`
	History   []memory.HistoryEntry `json:"conversationHistory,omitempty"`
}

type AssistantReply struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"requestId,omitempty"`
	SessionID string      `json:"sessionId"`
	Reply     string      `json:"reply"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"requestId,omitempty"`
	SessionID string      `json:"sessionId,omitempty"`
	Code      string      `json:"code"`
	Retryable bool        `json:"retryable"`
	Detail    string      `json:"detail"`
}

func NewAssistantReply(requestID, sessionID, reply string) AssistantReply {
	return AssistantReply{Type: TypeAssistantReply, RequestID: requestID, SessionID: sessionID, Reply: reply}
}

func NewErrorEvent(requestID, sessionID, code, detail string, retryable bool) ErrorEvent {
	return ErrorEvent{
		Type:      TypeErrorEvent,
		RequestID: requestID,
		SessionID: sessionID,
		Code:      code,
		Retryable: retryable,
		Detail:    detail,
	}
}

func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeChatMessage:
		var msg ChatMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if strings.TrimSpace(msg.Message) == "" {
			return nil, errors.New("invalid chat_message: message is required")
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
