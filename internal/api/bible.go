package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/bibleai/internal/scripture"
)

// ListBooks returns the 66-book catalog.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{"books": scripture.Books()})
}

// GetChapter returns one chapter with its verses in ascending order.
func (h *Handler) GetChapter(w http.ResponseWriter, r *http.Request) {
	book, err := url.PathUnescape(chi.URLParam(r, "book"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid book")
		return
	}
	number, err := strconv.Atoi(chi.URLParam(r, "chapter"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid chapter")
		return
	}

	chapter, ok := h.verses.GetChapter(book, number)
	if !ok {
		Error(w, http.StatusNotFound, "chapter not found")
		return
	}
	JSON(w, http.StatusOK, chapter)
}

// SearchVerses runs a case-insensitive substring search. An empty query
// returns an empty list.
func (h *Handler) SearchVerses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := scripture.DefaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	results := h.verses.SearchVerses(query, limit)
	JSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}

// VerseOfTheDay returns today's featured verse.
func (h *Handler) VerseOfTheDay(w http.ResponseWriter, r *http.Request) {
	v := scripture.VerseOfTheDay(h.now())
	JSON(w, http.StatusOK, map[string]interface{}{
		"verse":     v,
		"id":        v.ID(),
		"reference": v.Reference(),
	})
}
