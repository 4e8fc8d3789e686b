// Package bookmark keeps the user's saved verses.
package bookmark

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ashureev/bibleai/internal/domain"
	"github.com/ashureev/bibleai/internal/store"
)

// Store is the in-memory bookmark set, mirrored to durable storage after every
// mutation. Insertion order is preserved for display.
type Store struct {
	repo   store.Repository
	mirror *store.Mirror
	key    string
	logger *slog.Logger

	mu    sync.RWMutex
	items []domain.Verse
}

// NewStore creates an empty store. Call Load to restore persisted bookmarks.
func NewStore(repo store.Repository, mirror *store.Mirror, key string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		repo:   repo,
		mirror: mirror,
		key:    key,
		logger: logger.With("component", "bookmarks"),
	}
}

// storedVerse accepts both the current shape and the legacy {v, t} shape.
type storedVerse struct {
	Book    string  `json:"book"`
	Chapter int     `json:"chapter"`
	Verse   *int    `json:"verse,omitempty"`
	Text    *string `json:"text,omitempty"`
	V       *int    `json:"v,omitempty"`
	T       *string `json:"t,omitempty"`
}

// normalize converts one stored entry. legacy reports whether the entry used
// the old key names.
func (sv storedVerse) normalize() (v domain.Verse, legacy, ok bool) {
	v = domain.Verse{Book: sv.Book, Chapter: sv.Chapter}
	switch {
	case sv.Verse != nil:
		v.Verse = *sv.Verse
	case sv.V != nil:
		v.Verse = *sv.V
		legacy = true
	}
	switch {
	case sv.Text != nil:
		v.Text = *sv.Text
	case sv.T != nil:
		v.Text = *sv.T
		legacy = true
	}
	if sv.Verse != nil && sv.V != nil || sv.Text != nil && sv.T != nil {
		legacy = true
	}
	return v, legacy, v.Book != "" && v.Text != ""
}

// Load restores the persisted set. Legacy entries are normalized and written
// back; corrupt data is discarded and its record cleared.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load bookmarks: %w", err)
	}

	var items []domain.Verse
	changed := false
	if raw != nil {
		var stored []storedVerse
		if err := json.Unmarshal(raw, &stored); err != nil {
			s.logger.Warn("discarding corrupt bookmarks", "key", s.key, "error", err)
			if delErr := s.repo.Delete(ctx, s.key); delErr != nil {
				return fmt.Errorf("clear corrupt bookmarks: %w", delErr)
			}
			stored = nil
		}
		items = make([]domain.Verse, 0, len(stored))
		for _, sv := range stored {
			v, legacy, ok := sv.normalize()
			if legacy {
				changed = true
			}
			if !ok {
				changed = true
				continue
			}
			if containsVerse(items, v) {
				changed = true
				continue
			}
			items = append(items, v)
		}
	}

	if changed {
		data, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode bookmarks: %w", err)
		}
		if err := s.repo.Set(ctx, s.key, data); err != nil {
			return fmt.Errorf("write normalized bookmarks: %w", err)
		}
		s.logger.Info("normalized stored bookmarks", "count", len(items))
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

func containsVerse(items []domain.Verse, v domain.Verse) bool {
	return indexOf(items, v) >= 0
}

func indexOf(items []domain.Verse, v domain.Verse) int {
	for i, it := range items {
		if it.SameAs(v) {
			return i
		}
	}
	return -1
}

// Toggle removes the verse if bookmarked, otherwise appends it. It returns
// whether the verse is bookmarked afterwards.
func (s *Store) Toggle(v domain.Verse) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.items, v); i >= 0 {
		s.items = removeAt(s.items, i)
		s.persistLocked()
		return false
	}
	s.items = append(s.items, v)
	s.persistLocked()
	return true
}

// Remove deletes the verse by identity. Absent verses are ignored.
func (s *Store) Remove(v domain.Verse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.items, v)
	if i < 0 {
		return
	}
	s.items = removeAt(s.items, i)
	s.persistLocked()
}

// RemoveByID deletes the verse with the given identity key.
func (s *Store) RemoveByID(id string) error {
	book, chapter, verse, err := domain.ParseVerseID(id)
	if err != nil {
		return err
	}
	s.Remove(domain.Verse{Book: book, Chapter: chapter, Verse: verse})
	return nil
}

// IsBookmarked reports whether a verse with the same identity is saved.
func (s *Store) IsBookmarked(v domain.Verse) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.items, v) >= 0
}

// List returns a copy of the bookmarks in insertion order.
func (s *Store) List() []domain.Verse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Verse, len(s.items))
	copy(out, s.items)
	return out
}

func removeAt(items []domain.Verse, i int) []domain.Verse {
	out := make([]domain.Verse, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// persistLocked enqueues a snapshot; callers hold s.mu.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error("encode bookmarks", "error", err)
		return
	}
	s.mirror.Enqueue(s.key, data)
}
