package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ent0n29/memoir/internal/chat"
	"github.com/ent0n29/memoir/internal/protocol"
)

const (
	wsReadLimit    = 1 << 20
	wsIdleTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	resp, err := s.chat.Respond(r.Context(), req)
	if err != nil {
		if errors.Is(err, chat.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
			return
		}
		s.logger.Error("chat failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal", "could not produce a reply")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleChatWS serves chat turns over a websocket, one reply per chat_message
// in arrival order. The session of the first reply is reused for later
// messages that do not name one.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		return nil
	})

	var sessionID string
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			if !s.writeWS(conn, protocol.NewErrorEvent("", sessionID, protocol.CodeInvalidMessage, err.Error(), false)) {
				return
			}
			continue
		}
		msg, ok := parsed.(protocol.ChatMessage)
		if !ok {
			continue
		}
		s.metrics.ObserveWSMessage("inbound", string(msg.Type))

		if msg.SessionID == "" {
			msg.SessionID = sessionID
		}
		resp, err := s.chat.Respond(ctx, chat.Request{
			Message:   msg.Message,
			Language:  msg.Language,
			SessionID: msg.SessionID,
			History:   msg.History,
			PersonID:  msg.PersonID,
		})
		var out any
		switch {
		case errors.Is(err, chat.ErrInvalidInput):
			out = protocol.NewErrorEvent(msg.RequestID, msg.SessionID, protocol.CodeInvalidInput, err.Error(), false)
		case err != nil:
			s.logger.Error("chat failed", "err", err, "transport", "ws")
			out = protocol.NewErrorEvent(msg.RequestID, msg.SessionID, protocol.CodeInternal, "could not produce a reply", true)
		default:
			sessionID = resp.SessionID
			out = protocol.NewAssistantReply(msg.RequestID, resp.SessionID, resp.Reply)
		}
		if !s.writeWS(conn, out) {
			return
		}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, msg any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		return false
	}
	switch m := msg.(type) {
	case protocol.AssistantReply:
		s.metrics.ObserveWSMessage("outbound", string(m.Type))
	case protocol.ErrorEvent:
		s.metrics.ObserveWSMessage("outbound", string(m.Type))
	}
	return true
}
