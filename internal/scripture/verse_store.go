// Package scripture serves the read-only KJV dataset: chapter lookup,
// substring search, the book catalog and the featured verse rotation.
package scripture

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ashureev/bibleai/internal/domain"
)

// DefaultSearchLimit caps SearchVerses when the caller passes no limit.
const DefaultSearchLimit = 50

//go:embed data/kjv_sample.json
var sampleDataset []byte

// Chapter is a resolved chapter with its verses sorted by verse number.
type Chapter struct {
	Book   string         `json:"book"`
	Number int            `json:"chapter"`
	Verses []domain.Verse `json:"verses"`
}

type chapterData struct {
	number int
	verses []domain.Verse // dataset order
	lower  []string       // lowercased text, parallel to verses
	sorted []domain.Verse // ascending verse number
}

type bookData struct {
	name     string
	chapters []chapterData // ascending chapter number
}

// VerseStore is an immutable index over a scripture dataset. It is safe for
// concurrent use once constructed.
type VerseStore struct {
	books []bookData
	index map[string]int
	count int
}

type verseEntry struct {
	V int    `json:"v"`
	T string `json:"t"`
}

// Default loads the embedded sample dataset.
func Default() (*VerseStore, error) {
	return Load(bytes.NewReader(sampleDataset))
}

// LoadFile loads a dataset from path.
func LoadFile(path string) (*VerseStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scripture dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load decodes a dataset shaped {"Book": {"1": [{"v": 1, "t": "..."}]}}.
// Book order follows the document; chapters are ordered numerically.
func Load(r io.Reader) (*VerseStore, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	s := &VerseStore{index: make(map[string]int)}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		book, err := decodeBook(dec, name)
		if err != nil {
			return nil, err
		}
		if i, dup := s.index[name]; dup {
			s.books[i] = book
			continue
		}
		s.index[name] = len(s.books)
		s.books = append(s.books, book)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	for _, b := range s.books {
		for _, c := range b.chapters {
			s.count += len(c.verses)
		}
	}
	return s, nil
}

func decodeBook(dec *json.Decoder, name string) (bookData, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return bookData{}, fmt.Errorf("book %s: %w", name, err)
	}
	book := bookData{name: name}
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return bookData{}, fmt.Errorf("book %s: %w", name, err)
		}
		number, err := strconv.Atoi(key)
		if err != nil || number < 1 {
			return bookData{}, fmt.Errorf("book %s: invalid chapter key %q", name, key)
		}
		var entries []verseEntry
		if err := dec.Decode(&entries); err != nil {
			return bookData{}, fmt.Errorf("book %s chapter %d: %w", name, number, err)
		}
		book.chapters = append(book.chapters, buildChapter(name, number, entries))
	}
	if err := expectDelim(dec, '}'); err != nil {
		return bookData{}, fmt.Errorf("book %s: %w", name, err)
	}
	sort.SliceStable(book.chapters, func(i, j int) bool {
		return book.chapters[i].number < book.chapters[j].number
	})
	return book, nil
}

func buildChapter(book string, number int, entries []verseEntry) chapterData {
	c := chapterData{
		number: number,
		verses: make([]domain.Verse, 0, len(entries)),
		lower:  make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		c.verses = append(c.verses, domain.Verse{Book: book, Chapter: number, Verse: e.V, Text: e.T})
		c.lower = append(c.lower, strings.ToLower(e.T))
	}
	c.sorted = make([]domain.Verse, len(c.verses))
	copy(c.sorted, c.verses)
	sort.SliceStable(c.sorted, func(i, j int) bool { return c.sorted[i].Verse < c.sorted[j].Verse })
	return c
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode scripture dataset: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("decode scripture dataset: expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("decode scripture dataset: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("decode scripture dataset: expected key, got %v", tok)
	}
	return key, nil
}

// VerseCount returns how many verses the dataset holds.
func (s *VerseStore) VerseCount() int {
	return s.count
}

func (s *VerseStore) book(name string) (*bookData, bool) {
	if i, ok := s.index[name]; ok {
		return &s.books[i], true
	}
	if b, ok := LookupBook(name); ok {
		if i, ok := s.index[b.Name]; ok {
			return &s.books[i], true
		}
	}
	return nil, false
}

func (b *bookData) chapter(number int) (*chapterData, bool) {
	i := sort.Search(len(b.chapters), func(i int) bool { return b.chapters[i].number >= number })
	if i < len(b.chapters) && b.chapters[i].number == number {
		return &b.chapters[i], true
	}
	return nil, false
}

// GetChapter returns the chapter's verses sorted ascending. ok is false when
// the book is unknown or the chapter has no entries.
func (s *VerseStore) GetChapter(bookName string, number int) (Chapter, bool) {
	b, ok := s.book(bookName)
	if !ok {
		return Chapter{}, false
	}
	c, ok := b.chapter(number)
	if !ok || len(c.sorted) == 0 {
		return Chapter{}, false
	}
	verses := make([]domain.Verse, len(c.sorted))
	copy(verses, c.sorted)
	return Chapter{Book: b.name, Number: number, Verses: verses}, true
}

// Lookup returns a single verse.
func (s *VerseStore) Lookup(bookName string, chapter, verse int) (domain.Verse, bool) {
	b, ok := s.book(bookName)
	if !ok {
		return domain.Verse{}, false
	}
	c, ok := b.chapter(chapter)
	if !ok {
		return domain.Verse{}, false
	}
	for _, v := range c.verses {
		if v.Verse == verse {
			return v, true
		}
	}
	return domain.Verse{}, false
}

// SearchVerses returns verses whose text contains query, ignoring case, in
// dataset order. It stops after limit matches; limit <= 0 means
// DefaultSearchLimit. An empty query matches nothing.
func (s *VerseStore) SearchVerses(query string, limit int) []domain.Verse {
	results := []domain.Verse{}
	if query == "" {
		return results
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := strings.ToLower(query)
	for _, b := range s.books {
		for _, c := range b.chapters {
			for i, text := range c.lower {
				if text == "" || !strings.Contains(text, needle) {
					continue
				}
				results = append(results, c.verses[i])
				if len(results) >= limit {
					return results
				}
			}
		}
	}
	return results
}
