//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/bibleai/internal/bookmark"
	"github.com/ashureev/bibleai/internal/chat"
	"github.com/ashureev/bibleai/internal/domain"
	"github.com/ashureev/bibleai/internal/onboarding"
	"github.com/ashureev/bibleai/internal/scripture"
	"github.com/ashureev/bibleai/internal/store"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(context.Context, string, []domain.Message, int) (string, error) {
	return s.reply, s.err
}

func (s stubCompleter) GenerateTitle(context.Context, string) string {
	return "Peace in Trouble"
}

type testServer struct {
	router     chi.Router
	handler    *Handler
	repo       *store.MemoryStore
	mirror     *store.Mirror
	keys       store.Keys
	onboarding *onboarding.Store
	chat       *chat.Service
}

func newTestServer(t *testing.T, loadOnboarding bool) *testServer {
	t.Helper()
	ctx := context.Background()

	repo := store.NewMemory()
	mirror := store.NewMirror(repo, store.MirrorConfig{}, nil)
	t.Cleanup(func() { _ = mirror.Close(context.Background()) })
	keys := store.NewKeys(store.DefaultNamespace)

	verses, err := scripture.Default()
	require.NoError(t, err)

	bookmarks := bookmark.NewStore(repo, mirror, keys.Bookmarks, nil)
	require.NoError(t, bookmarks.Load(ctx))

	onboard := onboarding.NewStore(repo, keys, nil)
	if loadOnboarding {
		require.NoError(t, onboard.Load(ctx))
	}

	sessions := chat.NewSessionStore(repo, mirror, keys.Chats, nil)
	require.NoError(t, sessions.Load(ctx))
	svc := chat.NewService(sessions, stubCompleter{reply: "Cast all your care upon Him."}, nil, chat.ServiceConfig{}, nil)

	h := NewHandler(verses, bookmarks, onboard, svc, true)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	NewHealthHandler(repo, mirror).RegisterHealth(r)

	return &testServer{router: r, handler: h, repo: repo, mirror: mirror, keys: keys, onboarding: onboard, chat: svc}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got), rec.Body.String())
	return got
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestStartupRouting(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, false)
	got := decode(t, s.do(t, http.MethodGet, "/api/startup", nil))
	assert.Equal(t, "unknown", got["onboarding"])
	assert.Equal(t, "loading", got["route"])
	assert.Equal(t, false, got["has_chat_sessions"])

	require.NoError(t, s.onboarding.Load(context.Background()))
	got = decode(t, s.do(t, http.MethodGet, "/api/startup", nil))
	assert.Equal(t, "not_completed", got["onboarding"])
	assert.Equal(t, "onboarding", got["route"])

	require.NoError(t, s.onboarding.Complete(context.Background()))
	s.chat.Sessions().CreateNewChat()
	got = decode(t, s.do(t, http.MethodGet, "/api/startup", nil))
	assert.Equal(t, "tabs", got["route"])
	assert.Equal(t, true, got["has_chat_sessions"])
}

func TestGetConfig(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, true)
	got := decode(t, s.do(t, http.MethodGet, "/api/config", nil))
	assert.Equal(t, true, got["ai_enabled"])
}

func TestGetChapter(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, true)

	rec := s.do(t, http.MethodGet, "/api/bible/books/Psalms/chapters/23", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ch scripture.Chapter
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ch))
	assert.Equal(t, "Psalms", ch.Book)
	require.Len(t, ch.Verses, 6)
	assert.Equal(t, 1, ch.Verses[0].Verse)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/bible/books/Psalms/chapters/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/bible/books/Nope/chapters/1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/bible/books/Psalms/chapters/one", nil).Code)
}

func TestSearchVerses(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, true)

	got := decode(t, s.do(t, http.MethodGet, "/api/bible/search?q=SHEPHERD", nil))
	results, ok := got["results"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, results)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "Psalms", first["book"])

	got = decode(t, s.do(t, http.MethodGet, "/api/bible/search?q=", nil))
	results, ok = got["results"].([]interface{})
	require.True(t, ok, "empty query returns an empty list, not null")
	assert.Empty(t, results)

	got = decode(t, s.do(t, http.MethodGet, "/api/bible/search?q=%20God%20", nil))
	assert.Equal(t, " God ", got["query"])
	for _, r := range got["results"].([]interface{}) {
		text := r.(map[string]interface{})["text"].(string)
		assert.Contains(t, strings.ToLower(text), " god ")
	}

	got = decode(t, s.do(t, http.MethodGet, "/api/bible/search?q=the&limit=2", nil))
	assert.Len(t, got["results"], 2)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/bible/search?q=the&limit=0", nil).Code)
}

func TestVerseOfTheDay(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, true)
	s.handler.now = func() time.Time { return time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC) }
	want := scripture.VerseOfTheDay(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))

	got := decode(t, s.do(t, http.MethodGet, "/api/bible/verse-of-the-day", nil))
	assert.Equal(t, want.ID(), got["id"])
	assert.Equal(t, want.Reference(), got["reference"])
}

func TestBookmarkEndpoints(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, true)
	verse := domain.Verse{Book: "John", Chapter: 3, Verse: 16, Text: "For God so loved the world"}

	got := decode(t, s.do(t, http.MethodPost, "/api/bookmarks/toggle", verse))
	assert.Equal(t, true, got["bookmarked"])
	assert.Equal(t, "John-3-16", got["id"])

	got = decode(t, s.do(t, http.MethodGet, "/api/bookmarks", nil))
	assert.Len(t, got["bookmarks"], 1)

	rec := s.do(t, http.MethodDelete, "/api/bookmarks/John-3-16", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	got = decode(t, s.do(t, http.MethodGet, "/api/bookmarks", nil))
	assert.Empty(t, got["bookmarks"])

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodDelete, "/api/bookmarks/garbage", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/bookmarks/toggle", map[string]string{"book": "John"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/bookmarks/toggle",
		domain.Verse{Book: "John", Chapter: 99, Verse: 1}).Code)
}

func TestToggleBookmarkSurvivesReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodPost, "/api/bookmarks/toggle", map[string]interface{}{"book": "John", "chapter": 3, "verse": 16})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["bookmarked"])
	require.NoError(t, s.mirror.Flush(ctx))

	reloaded := bookmark.NewStore(s.repo, s.mirror, s.keys.Bookmarks, nil)
	require.NoError(t, reloaded.Load(ctx))
	saved := reloaded.List()
	require.Len(t, saved, 1)
	assert.Equal(t, "John-3-16", saved[0].ID())
	assert.True(t, strings.HasPrefix(saved[0].Text, "For God so loved the world"))
}

func TestOnboardingEndpoints(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, true)

	rec := s.do(t, http.MethodPut, "/api/onboarding/answers/gender", map[string]string{"value": "female"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	answers := decode(t, rec)["answers"].(map[string]interface{})
	assert.Equal(t, "female", answers["gender"])

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, "/api/onboarding/answers/favoriteColor", map[string]string{"value": "blue"}).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodPut, "/api/onboarding/answers/gender", map[string]string{"value": "robot"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, "/api/onboarding/answers/gender", map[string]string{}).Code)

	got := decode(t, s.do(t, http.MethodPost, "/api/onboarding/complete", nil))
	assert.Equal(t, "completed", got["status"])

	got = decode(t, s.do(t, http.MethodGet, "/api/onboarding", nil))
	assert.Equal(t, "completed", got["status"])

	got = decode(t, s.do(t, http.MethodPost, "/api/onboarding/reset", nil))
	assert.Equal(t, "not_completed", got["status"])

	got = decode(t, s.do(t, http.MethodGet, "/api/onboarding/questions", nil))
	assert.Len(t, got["questions"], 14)
}

func TestChatEndpoints(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, true)

	rec := s.do(t, http.MethodPost, "/api/chats/messages", map[string]string{"message": "I am worried"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res chat.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Committed)
	assert.Equal(t, "Cast all your care upon Him.", res.Reply.Content)
	assert.Equal(t, "Peace in Trouble", res.Title)

	rec = s.do(t, http.MethodGet, "/api/chats/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cur domain.ChatSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cur))
	assert.Equal(t, res.SessionID, cur.ID)
	assert.Len(t, cur.Messages, 2)

	got := decode(t, s.do(t, http.MethodPut, "/api/chats/current", map[string]string{"id": "missing"}))
	assert.Equal(t, false, got["selected"])
	assert.Equal(t, res.SessionID, got["current_id"])

	got = decode(t, s.do(t, http.MethodPost, "/api/chats", nil))
	assert.NotEqual(t, res.SessionID, got["id"])
	assert.Len(t, got["sessions"], 2)

	rec = s.do(t, http.MethodPut, "/api/chats/current/title", map[string]string{"title": "Worry"})
	require.Equal(t, http.StatusOK, rec.Code)

	got = decode(t, s.do(t, http.MethodDelete, "/api/chats/"+res.SessionID, nil))
	assert.Equal(t, true, got["deleted"])
	assert.Len(t, got["sessions"], 1)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/chats/messages", map[string]string{"message": "  "}).Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/chats", nil).Code)
	got = decode(t, s.do(t, http.MethodGet, "/api/chats", nil))
	assert.Empty(t, got["sessions"])
	assert.Equal(t, "", got["current_id"])
}

func TestDecodeBodyRejectsOversizedPayload(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, true)
	huge := `{"message":"` + strings.Repeat("a", maxRequestBodySize) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chats/messages", strings.NewReader(huge))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, true)
	rec := s.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "healthy", got["status"])

	require.NoError(t, s.repo.Close())
	rec = s.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
