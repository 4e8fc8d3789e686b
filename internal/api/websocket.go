package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/ashureev/bibleai/internal/chat"
)

// ChatSocket runs chat turns over a WebSocket. Turns on one connection are
// processed in order.
type ChatSocket struct {
	chat          *chat.Service
	allowedOrigin string
	isDev         bool
}

// NewChatSocket creates a new WebSocket chat handler.
func NewChatSocket(chatSvc *chat.Service, allowedOrigin string, isDev bool) *ChatSocket {
	return &ChatSocket{chat: chatSvc, allowedOrigin: allowedOrigin, isDev: isDev}
}

// wsMessage is a client frame.
type wsMessage struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// wsReply is a server frame.
type wsReply struct {
	Type   string           `json:"type"`
	Result *chat.TurnResult `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *ChatSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	slog.Info("Chat socket connected", "ip", r.RemoteAddr)
	h.readLoop(r.Context(), ws)
	slog.Info("Chat socket closed", "ip", r.RemoteAddr)
}

func (h *ChatSocket) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" || origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *ChatSocket) readLoop(ctx context.Context, ws *websocket.Conn) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client")
			} else if !errors.Is(err, context.Canceled) {
				slog.Warn("WebSocket read error", "error", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.send(ws, wsReply{Type: "error", Error: "invalid message"})
			continue
		}

		switch msg.Type {
		case "ping":
			h.send(ws, wsReply{Type: "pong"})
		case "message":
			res, err := h.chat.Send(ctx, chat.TurnRequest{Message: msg.Content, Channel: chat.ChannelWebSocket})
			if err != nil {
				h.send(ws, wsReply{Type: "error", Error: err.Error()})
				continue
			}
			h.send(ws, wsReply{Type: "reply", Result: &res})
		default:
			h.send(ws, wsReply{Type: "error", Error: "unknown message type"})
		}
	}
}

func (h *ChatSocket) send(ws *websocket.Conn, v wsReply) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode websocket frame", "error", err)
		return
	}
	if err := ws.Write(context.Background(), websocket.MessageText, data); err != nil {
		slog.Debug("WebSocket write error", "type", v.Type, "error", err)
	}
}
