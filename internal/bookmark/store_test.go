package bookmark

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/bibleai/internal/domain"
	"github.com/ashureev/bibleai/internal/store"
)

const key = "@bible_ai_bookmarks"

var (
	john316 = domain.Verse{Book: "John", Chapter: 3, Verse: 16, Text: "For God so loved the world"}
	ps231   = domain.Verse{Book: "Psalms", Chapter: 23, Verse: 1, Text: "The LORD is my shepherd; I shall not want."}
)

func newStore(t *testing.T, repo store.Repository) (*Store, *store.Mirror) {
	t.Helper()
	m := store.NewMirror(repo, store.MirrorConfig{}, nil)
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	return NewStore(repo, m, key, nil), m
}

func TestToggleTwiceRestoresState(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, store.NewMemory())
	require.NoError(t, s.Load(context.Background()))
	s.Toggle(ps231)

	before := s.List()
	assert.False(t, s.IsBookmarked(john316))

	assert.True(t, s.Toggle(john316))
	assert.True(t, s.IsBookmarked(john316))
	assert.False(t, s.Toggle(john316))

	assert.False(t, s.IsBookmarked(john316))
	assert.Equal(t, before, s.List())
}

func TestToggleMatchesByIdentity(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, store.NewMemory())
	s.Toggle(john316)

	sameVerseOtherText := john316
	sameVerseOtherText.Text = "different rendering"
	assert.True(t, s.IsBookmarked(sameVerseOtherText))
	assert.False(t, s.Toggle(sameVerseOtherText))
	assert.Empty(t, s.List())
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, store.NewMemory())
	s.Toggle(ps231)
	s.Remove(john316)
	assert.Equal(t, []domain.Verse{ps231}, s.List())

	require.NoError(t, s.RemoveByID(ps231.ID()))
	assert.Empty(t, s.List())
	assert.Error(t, s.RemoveByID("nonsense"))
}

func TestMutationsPersist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := store.NewMemory()
	s, m := newStore(t, repo)
	s.Toggle(john316)
	s.Toggle(ps231)
	require.NoError(t, m.Flush(ctx))

	reloaded, _ := newStore(t, repo)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, []domain.Verse{john316, ps231}, reloaded.List())
}

func TestLoadNormalizesLegacyShape(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	legacyRepo := store.NewMemory()
	require.NoError(t, legacyRepo.Set(ctx, key, []byte(`[
		{"book":"John","chapter":3,"v":16,"t":"For God so loved the world"},
		{"book":"Psalms","chapter":23,"v":1,"t":"The LORD is my shepherd; I shall not want."}
	]`)))
	currentRepo := store.NewMemory()
	current, err := json.Marshal([]domain.Verse{john316, ps231})
	require.NoError(t, err)
	require.NoError(t, currentRepo.Set(ctx, key, current))

	legacy, _ := newStore(t, legacyRepo)
	require.NoError(t, legacy.Load(ctx))
	modern, _ := newStore(t, currentRepo)
	require.NoError(t, modern.Load(ctx))

	assert.Equal(t, modern.List(), legacy.List())

	// The normalized set was written back in the current shape.
	raw, err := legacyRepo.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, string(current), string(raw))
}

func TestLoadDiscardsIncompleteEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := store.NewMemory()
	require.NoError(t, repo.Set(ctx, key, []byte(`[
		{"book":"John","chapter":3,"verse":16,"text":"For God so loved the world"},
		{"book":"","chapter":1,"verse":1,"text":"orphan"},
		{"book":"Ruth","chapter":1,"v":1}
	]`)))

	s, _ := newStore(t, repo)
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, []domain.Verse{john316}, s.List())

	raw, err := repo.Get(ctx, key)
	require.NoError(t, err)
	var stored []domain.Verse
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, []domain.Verse{john316}, stored)
}

func TestLoadClearsCorruptData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := store.NewMemory()
	require.NoError(t, repo.Set(ctx, key, []byte(`{not json`)))

	s, _ := newStore(t, repo)
	require.NoError(t, s.Load(ctx))
	assert.Empty(t, s.List())

	raw, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, raw, "corrupt record must be cleared")
}

func TestLoadCurrentShapeDoesNotRewrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := &countingRepo{MemoryStore: store.NewMemory()}
	data, err := json.Marshal([]domain.Verse{ps231})
	require.NoError(t, err)
	require.NoError(t, repo.MemoryStore.Set(ctx, key, data))

	s, _ := newStore(t, repo)
	require.NoError(t, s.Load(ctx))
	assert.Zero(t, repo.sets)
}

type countingRepo struct {
	*store.MemoryStore
	sets int
}

func (c *countingRepo) Set(ctx context.Context, k string, v []byte) error {
	c.sets++
	return c.MemoryStore.Set(ctx, k, v)
}
