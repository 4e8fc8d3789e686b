package scripture

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shuffled = `{
  "Ruth": {
    "2": [{"v": 2, "t": "And Ruth the Moabitess said unto Naomi"}],
    "1": [
      {"v": 3, "t": "And Elimelech Naomi's husband died"},
      {"v": 1, "t": "Now it came to pass in the days when the judges ruled"},
      {"v": 2, "t": "And the name of the man was Elimelech"}
    ]
  },
  "Genesis": {
    "1": [{"v": 1, "t": "In the beginning God created the heaven and the earth."}]
  }
}`

func TestGetChapterSortsVerses(t *testing.T) {
	t.Parallel()

	s, err := Load(strings.NewReader(shuffled))
	require.NoError(t, err)

	ch, ok := s.GetChapter("Ruth", 1)
	require.True(t, ok)
	require.Len(t, ch.Verses, 3)
	for i, v := range ch.Verses {
		assert.Equal(t, i+1, v.Verse)
		assert.Equal(t, "Ruth", v.Book)
		assert.Equal(t, 1, v.Chapter)
	}
}

func TestGetChapterNotFound(t *testing.T) {
	t.Parallel()

	s, err := Load(strings.NewReader(shuffled))
	require.NoError(t, err)

	_, ok := s.GetChapter("Ezra", 1)
	assert.False(t, ok, "unknown book")
	_, ok = s.GetChapter("Ruth", 4)
	assert.False(t, ok, "chapter with no entries")
}

func TestGetChapterResolvesAbbreviation(t *testing.T) {
	t.Parallel()

	s, err := Default()
	require.NoError(t, err)

	ch, ok := s.GetChapter("ps", 23)
	require.True(t, ok)
	assert.Equal(t, "Psalms", ch.Book)
	assert.Len(t, ch.Verses, 6)
}

func TestSearchVersesDatasetOrder(t *testing.T) {
	t.Parallel()

	s, err := Load(strings.NewReader(shuffled))
	require.NoError(t, err)

	got := s.SearchVerses("ELIMELECH", 0)
	require.Len(t, got, 2)
	// Chapters scan numerically; verses keep their file order.
	assert.Equal(t, 3, got[0].Verse)
	assert.Equal(t, 2, got[1].Verse)

	got = s.SearchVerses("the", 0)
	require.NotEmpty(t, got)
	assert.Equal(t, "Ruth", got[0].Book, "books scan in document order")
}

func TestSearchVersesEmptyQuery(t *testing.T) {
	t.Parallel()

	s, err := Default()
	require.NoError(t, err)

	got := s.SearchVerses("", 10)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchVersesRespectsLimit(t *testing.T) {
	t.Parallel()

	s, err := Default()
	require.NoError(t, err)

	all := s.SearchVerses("the", 1000)
	require.Greater(t, len(all), 3)

	for _, limit := range []int{1, 2, 3} {
		assert.Len(t, s.SearchVerses("the", limit), limit)
	}
	assert.LessOrEqual(t, len(s.SearchVerses("the", 0)), DefaultSearchLimit)
}

func TestLoadRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{
		`[]`,
		`{"John": {"three": []}}`,
		`{"John": {"3": {"v": 1}}}`,
		`{"John": `,
	} {
		_, err := Load(strings.NewReader(doc))
		assert.Error(t, err, doc)
	}
}

func TestDefaultDatasetChaptersAreContiguous(t *testing.T) {
	t.Parallel()

	s, err := Default()
	require.NoError(t, err)
	assert.Positive(t, s.VerseCount())

	for _, b := range s.books {
		for _, c := range b.chapters {
			ch, ok := s.GetChapter(b.name, c.number)
			require.True(t, ok)
			for i := 1; i < len(ch.Verses); i++ {
				assert.Equal(t, ch.Verses[i-1].Verse+1, ch.Verses[i].Verse, "%s %d", b.name, c.number)
			}
		}
	}
}

func TestFeaturedVersesExistInDataset(t *testing.T) {
	t.Parallel()

	s, err := Default()
	require.NoError(t, err)

	for _, f := range Featured() {
		v, ok := s.Lookup(f.Book, f.Chapter, f.Verse)
		require.True(t, ok, f.Reference())
		assert.Equal(t, f.Text, v.Text)
		_, ok = LookupBook(f.Book)
		assert.True(t, ok, "featured book %s missing from catalog", f.Book)
	}
}

func TestVerseOfTheDayRotates(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	first := VerseOfTheDay(day)
	assert.Equal(t, first, VerseOfTheDay(day.Add(10*time.Hour)), "same day, same verse")
	assert.NotEqual(t, first, VerseOfTheDay(day.AddDate(0, 0, 1)))
	assert.Equal(t, first, VerseOfTheDay(day.AddDate(0, 0, len(Featured()))))
}

func TestBooksCatalog(t *testing.T) {
	t.Parallel()

	all := Books()
	require.Len(t, all, 66)
	assert.Equal(t, "Genesis", all[0].Name)
	assert.Equal(t, "Revelation", all[65].Name)

	old := 0
	for _, b := range all {
		if b.Testament == OldTestament {
			old++
		}
	}
	assert.Equal(t, 39, old)

	b, ok := LookupBook("1cor")
	require.True(t, ok)
	assert.Equal(t, "1 Corinthians", b.Name)
	assert.Equal(t, 16, b.Chapters)
}
