package scripture

import "strings"

// Testament groups the books of the canon.
type Testament string

const (
	OldTestament Testament = "Old Testament"
	NewTestament Testament = "New Testament"
)

// Book describes one book of the 66-book canon.
type Book struct {
	Name         string    `json:"name"`
	Testament    Testament `json:"testament"`
	Chapters     int       `json:"chapters"`
	Abbreviation string    `json:"abbreviation"`
}

var books = []Book{
	{"Genesis", OldTestament, 50, "Gen"},
	{"Exodus", OldTestament, 40, "Exod"},
	{"Leviticus", OldTestament, 27, "Lev"},
	{"Numbers", OldTestament, 36, "Num"},
	{"Deuteronomy", OldTestament, 34, "Deut"},
	{"Joshua", OldTestament, 24, "Josh"},
	{"Judges", OldTestament, 21, "Judg"},
	{"Ruth", OldTestament, 4, "Ruth"},
	{"1 Samuel", OldTestament, 31, "1Sam"},
	{"2 Samuel", OldTestament, 24, "2Sam"},
	{"1 Kings", OldTestament, 22, "1Kgs"},
	{"2 Kings", OldTestament, 25, "2Kgs"},
	{"1 Chronicles", OldTestament, 29, "1Chr"},
	{"2 Chronicles", OldTestament, 36, "2Chr"},
	{"Ezra", OldTestament, 10, "Ezra"},
	{"Nehemiah", OldTestament, 13, "Neh"},
	{"Esther", OldTestament, 10, "Esth"},
	{"Job", OldTestament, 42, "Job"},
	{"Psalms", OldTestament, 150, "Ps"},
	{"Proverbs", OldTestament, 31, "Prov"},
	{"Ecclesiastes", OldTestament, 12, "Eccl"},
	{"Song of Solomon", OldTestament, 8, "Song"},
	{"Isaiah", OldTestament, 66, "Isa"},
	{"Jeremiah", OldTestament, 52, "Jer"},
	{"Lamentations", OldTestament, 5, "Lam"},
	{"Ezekiel", OldTestament, 48, "Ezek"},
	{"Daniel", OldTestament, 12, "Dan"},
	{"Hosea", OldTestament, 14, "Hos"},
	{"Joel", OldTestament, 3, "Joel"},
	{"Amos", OldTestament, 9, "Amos"},
	{"Obadiah", OldTestament, 1, "Obad"},
	{"Jonah", OldTestament, 4, "Jonah"},
	{"Micah", OldTestament, 7, "Mic"},
	{"Nahum", OldTestament, 3, "Nah"},
	{"Habakkuk", OldTestament, 3, "Hab"},
	{"Zephaniah", OldTestament, 3, "Zeph"},
	{"Haggai", OldTestament, 2, "Hag"},
	{"Zechariah", OldTestament, 14, "Zech"},
	{"Malachi", OldTestament, 4, "Mal"},
	{"Matthew", NewTestament, 28, "Matt"},
	{"Mark", NewTestament, 16, "Mark"},
	{"Luke", NewTestament, 24, "Luke"},
	{"John", NewTestament, 21, "John"},
	{"Acts", NewTestament, 28, "Acts"},
	{"Romans", NewTestament, 16, "Rom"},
	{"1 Corinthians", NewTestament, 16, "1Cor"},
	{"2 Corinthians", NewTestament, 13, "2Cor"},
	{"Galatians", NewTestament, 6, "Gal"},
	{"Ephesians", NewTestament, 6, "Eph"},
	{"Philippians", NewTestament, 4, "Phil"},
	{"Colossians", NewTestament, 4, "Col"},
	{"1 Thessalonians", NewTestament, 5, "1Thess"},
	{"2 Thessalonians", NewTestament, 3, "2Thess"},
	{"1 Timothy", NewTestament, 6, "1Tim"},
	{"2 Timothy", NewTestament, 4, "2Tim"},
	{"Titus", NewTestament, 3, "Titus"},
	{"Philemon", NewTestament, 1, "Phlm"},
	{"Hebrews", NewTestament, 13, "Heb"},
	{"James", NewTestament, 5, "Jas"},
	{"1 Peter", NewTestament, 5, "1Pet"},
	{"2 Peter", NewTestament, 3, "2Pet"},
	{"1 John", NewTestament, 5, "1John"},
	{"2 John", NewTestament, 1, "2John"},
	{"3 John", NewTestament, 1, "3John"},
	{"Jude", NewTestament, 1, "Jude"},
	{"Revelation", NewTestament, 22, "Rev"},
}

// Books returns the canon in order.
func Books() []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}

// LookupBook finds a book by name or abbreviation, ignoring case.
func LookupBook(name string) (Book, bool) {
	name = strings.TrimSpace(name)
	for _, b := range books {
		if strings.EqualFold(b.Name, name) || strings.EqualFold(b.Abbreviation, name) {
			return b, true
		}
	}
	return Book{}, false
}
