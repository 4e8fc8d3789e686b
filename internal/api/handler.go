// Package api provides HTTP handlers for the Bible AI API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/bibleai/internal/bookmark"
	"github.com/ashureev/bibleai/internal/chat"
	"github.com/ashureev/bibleai/internal/onboarding"
	"github.com/ashureev/bibleai/internal/scripture"
)

// maxRequestBodySize bounds JSON request bodies (1MB).
const maxRequestBodySize = 1 << 20

// Handler serves the scripture, bookmark, onboarding and chat endpoints.
type Handler struct {
	verses     *scripture.VerseStore
	bookmarks  *bookmark.Store
	onboarding *onboarding.Store
	chat       *chat.Service
	aiEnabled  bool
	now        func() time.Time
}

// NewHandler creates a new Handler over the loaded stores.
func NewHandler(verses *scripture.VerseStore, bookmarks *bookmark.Store, onboard *onboarding.Store, chatSvc *chat.Service, aiEnabled bool) *Handler {
	return &Handler{
		verses:     verses,
		bookmarks:  bookmarks,
		onboarding: onboard,
		chat:       chatSvc,
		aiEnabled:  aiEnabled,
		now:        time.Now,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/startup", h.GetStartup)
		r.Get("/config", h.GetConfig)

		r.Route("/bible", func(r chi.Router) {
			r.Get("/books", h.ListBooks)
			r.Get("/books/{book}/chapters/{chapter}", h.GetChapter)
			r.Get("/search", h.SearchVerses)
			r.Get("/verse-of-the-day", h.VerseOfTheDay)
		})

		r.Route("/bookmarks", func(r chi.Router) {
			r.Get("/", h.ListBookmarks)
			r.Post("/toggle", h.ToggleBookmark)
			r.Delete("/{id}", h.RemoveBookmark)
		})

		r.Route("/onboarding", func(r chi.Router) {
			r.Get("/", h.GetOnboarding)
			r.Get("/questions", h.ListQuestions)
			r.Put("/answers/{key}", h.UpdateAnswer)
			r.Post("/complete", h.CompleteOnboarding)
			r.Post("/reset", h.ResetOnboarding)
		})

		r.Route("/chats", func(r chi.Router) {
			r.Get("/", h.ListChats)
			r.Post("/", h.CreateChat)
			r.Delete("/", h.ClearChats)
			r.Get("/current", h.GetCurrentChat)
			r.Put("/current", h.SelectChat)
			r.Put("/current/title", h.SetChatTitle)
			r.Post("/messages", h.SendMessage)
			r.Delete("/{id}", h.DeleteChat)
		})
	})
}

// Initial routes the client can land on.
const (
	routeLoading    = "loading"
	routeOnboarding = "onboarding"
	routeTabs       = "tabs"
)

// GetStartup returns what the client needs to pick its first screen.
func (h *Handler) GetStartup(w http.ResponseWriter, r *http.Request) {
	status := h.onboarding.Status()
	route := routeLoading
	switch status {
	case onboarding.StatusNotCompleted:
		route = routeOnboarding
	case onboarding.StatusCompleted:
		route = routeTabs
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"onboarding":        status,
		"has_chat_sessions": h.chat.Sessions().HasSessions(),
		"route":             route,
	})
}

// GetConfig returns the server configuration for the frontend.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"ai_enabled": h.aiEnabled,
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeBody decodes a bounded JSON body into v, writing the error response
// itself. It reports whether the handler may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		slog.Debug("invalid request body", "path", r.URL.Path, "error", err)
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
