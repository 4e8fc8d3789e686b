// Package domain contains core domain types for the Bible AI companion service.
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVerseID is returned when a verse id cannot be parsed.
var ErrInvalidVerseID = errors.New("invalid verse id")

// Verse is a single verse of scripture. Identity is (Book, Chapter, Verse).
type Verse struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

// ID returns the composite identity key "{book}-{chapter}-{verse}".
func (v Verse) ID() string {
	return VerseID(v.Book, v.Chapter, v.Verse)
}

// Reference returns the human reference, e.g. "John 3:16".
func (v Verse) Reference() string {
	return fmt.Sprintf("%s %d:%d", v.Book, v.Chapter, v.Verse)
}

// SameAs reports whether two verses share an identity.
func (v Verse) SameAs(other Verse) bool {
	return v.Book == other.Book && v.Chapter == other.Chapter && v.Verse == other.Verse
}

// VerseID builds the identity key for a verse position.
func VerseID(book string, chapter, verse int) string {
	return book + "-" + strconv.Itoa(chapter) + "-" + strconv.Itoa(verse)
}

// ParseVerseID splits an identity key back into its parts. The chapter and
// verse are taken from the right so book names containing "-" survive.
func ParseVerseID(id string) (book string, chapter, verse int, err error) {
	parts := strings.Split(id, "-")
	if len(parts) < 3 {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrInvalidVerseID, id)
	}
	n := len(parts)
	verse, err = strconv.Atoi(parts[n-1])
	if err != nil || verse < 1 {
		return "", 0, 0, fmt.Errorf("%w: bad verse in %q", ErrInvalidVerseID, id)
	}
	chapter, err = strconv.Atoi(parts[n-2])
	if err != nil || chapter < 1 {
		return "", 0, 0, fmt.Errorf("%w: bad chapter in %q", ErrInvalidVerseID, id)
	}
	book = strings.Join(parts[:n-2], "-")
	if book == "" {
		return "", 0, 0, fmt.Errorf("%w: missing book in %q", ErrInvalidVerseID, id)
	}
	return book, chapter, verse, nil
}
