package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/bibleai/internal/domain"
)

// ListBookmarks returns saved verses in insertion order.
func (h *Handler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{"bookmarks": h.bookmarks.List()})
}

// ToggleBookmark saves the verse or removes it if already saved. The stored
// copy comes from the dataset so it always carries the verse text.
func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	var req domain.Verse
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Book == "" || req.Chapter < 1 || req.Verse < 1 {
		Error(w, http.StatusBadRequest, "book, chapter and verse are required")
		return
	}
	v, ok := h.verses.Lookup(req.Book, req.Chapter, req.Verse)
	if !ok {
		Error(w, http.StatusNotFound, "verse not found")
		return
	}
	bookmarked := h.bookmarks.Toggle(v)
	JSON(w, http.StatusOK, map[string]interface{}{
		"id":         v.ID(),
		"bookmarked": bookmarked,
	})
}

// RemoveBookmark deletes a bookmark by verse id. Unknown ids are a no-op.
func (h *Handler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	if err := h.bookmarks.RemoveByID(chi.URLParam(r, "id")); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
