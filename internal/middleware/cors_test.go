package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveWithCORS(origins []string, method, origin string) *httptest.ResponseRecorder {
	h := CORS(origins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(method, "/api/bookmarks", nil)
	req.Header.Set("Origin", origin)
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORSExplicitOrigin(t *testing.T) {
	t.Parallel()

	rec := serveWithCORS([]string{"https://bible.example.com"}, http.MethodGet, "https://bible.example.com")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://bible.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSRejectsOtherOrigin(t *testing.T) {
	t.Parallel()

	rec := serveWithCORS([]string{"https://bible.example.com"}, http.MethodGet, "https://evil.example.com")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardOmitsCredentials(t *testing.T) {
	t.Parallel()

	rec := serveWithCORS([]string{"*"}, http.MethodGet, "http://localhost:8081")
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	rec := serveWithCORS([]string{"https://bible.example.com"}, http.MethodOptions, "https://bible.example.com")
	assert.Less(t, rec.Code, 300)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestOrigins(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"*"}, Origins("", false))
	assert.Equal(t, []string{"*"}, Origins("http://localhost:8081", true))
	assert.Equal(t, []string{"https://bible.example.com"}, Origins("https://bible.example.com", false))
}
