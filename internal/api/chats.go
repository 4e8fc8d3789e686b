package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/bibleai/internal/chat"
)

type selectChatRequest struct {
	ID string `json:"id"`
}

type titleRequest struct {
	Title string `json:"title"`
}

func (h *Handler) chatState() map[string]interface{} {
	sessions := h.chat.Sessions()
	return map[string]interface{}{
		"sessions":   sessions.Sessions(),
		"current_id": sessions.CurrentID(),
	}
}

// ListChats returns all sessions, newest first, with the current id.
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.chatState())
}

// CreateChat selects the blank session, creating one when needed.
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	id := h.chat.Sessions().CreateNewChat()
	state := h.chatState()
	state["id"] = id
	JSON(w, http.StatusOK, state)
}

// GetCurrentChat returns the current session.
func (h *Handler) GetCurrentChat(w http.ResponseWriter, r *http.Request) {
	cur, ok := h.chat.Sessions().Current()
	if !ok {
		Error(w, http.StatusNotFound, "no current chat")
		return
	}
	JSON(w, http.StatusOK, cur)
}

// SelectChat switches the current session. Unknown ids leave it unchanged.
func (h *Handler) SelectChat(w http.ResponseWriter, r *http.Request) {
	var req selectChatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	selected := h.chat.Sessions().SelectChat(req.ID)
	state := h.chatState()
	state["selected"] = selected
	JSON(w, http.StatusOK, state)
}

// SetChatTitle overwrites the current session's title.
func (h *Handler) SetChatTitle(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !h.chat.Sessions().SetSessionTitle(req.Title) {
		Error(w, http.StatusNotFound, "no current chat")
		return
	}
	cur, _ := h.chat.Sessions().Current()
	JSON(w, http.StatusOK, cur)
}

// DeleteChat removes a session. Unknown ids are a no-op.
func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	deleted := h.chat.Sessions().DeleteChat(chi.URLParam(r, "id"))
	state := h.chatState()
	state["deleted"] = deleted
	JSON(w, http.StatusOK, state)
}

// ClearChats drops every session.
func (h *Handler) ClearChats(w http.ResponseWriter, r *http.Request) {
	if err := h.chat.Sessions().Clear(r.Context()); err != nil {
		slog.Error("Failed to clear chat history", "error", err)
		Error(w, http.StatusInternalServerError, "failed to clear chats")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage runs one chat turn. Remote failures come back as the reply
// with a failure kind, not as an HTTP error.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req chat.TurnRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Channel = chat.ChannelHTTP

	res, err := h.chat.Send(r.Context(), req)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			Error(w, http.StatusBadRequest, "message is required")
			return
		}
		Error(w, http.StatusInternalServerError, "chat failed")
		return
	}
	JSON(w, http.StatusOK, res)
}
