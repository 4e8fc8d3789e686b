package scripture

import (
	"time"

	"github.com/ashureev/bibleai/internal/domain"
)

var featured = []domain.Verse{
	{Book: "John", Chapter: 3, Verse: 16, Text: "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life."},
	{Book: "Philippians", Chapter: 4, Verse: 13, Text: "I can do all things through Christ which strengtheneth me."},
	{Book: "Jeremiah", Chapter: 29, Verse: 11, Text: "For I know the thoughts that I think toward you, saith the LORD, thoughts of peace, and not of evil, to give you an expected end."},
	{Book: "Proverbs", Chapter: 3, Verse: 5, Text: "Trust in the LORD with all thine heart; and lean not unto thine own understanding."},
	{Book: "Isaiah", Chapter: 41, Verse: 10, Text: "Fear thou not; for I am with thee: be not dismayed; for I am thy God: I will strengthen thee; yea, I will help thee; yea, I will uphold thee with the right hand of my righteousness."},
	{Book: "Romans", Chapter: 8, Verse: 28, Text: "And we know that all things work together for good to them that love God, to them who are the called according to his purpose."},
	{Book: "Psalms", Chapter: 23, Verse: 1, Text: "The LORD is my shepherd; I shall not want."},
	{Book: "Matthew", Chapter: 11, Verse: 28, Text: "Come unto me, all ye that labour and are heavy laden, and I will give you rest."},
	{Book: "Joshua", Chapter: 1, Verse: 9, Text: "Have not I commanded thee? Be strong and of a good courage; be not afraid, neither be thou dismayed: for the LORD thy God is with thee whithersoever thou goest."},
	{Book: "Psalms", Chapter: 46, Verse: 10, Text: "Be still, and know that I am God: I will be exalted among the heathen, I will be exalted in the earth."},
	{Book: "John", Chapter: 14, Verse: 6, Text: "Jesus saith unto him, I am the way, the truth, and the life: no man cometh unto the Father, but by me."},
	{Book: "Romans", Chapter: 12, Verse: 2, Text: "And be not conformed to this world: but be ye transformed by the renewing of your mind, that ye may prove what is that good, and acceptable, and perfect, will of God."},
}

// Featured returns the verses rotated on the home screen.
func Featured() []domain.Verse {
	out := make([]domain.Verse, len(featured))
	copy(out, featured)
	return out
}

// VerseOfTheDay picks the featured verse for t's calendar day.
func VerseOfTheDay(t time.Time) domain.Verse {
	y, m, d := t.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	i := int(days % int64(len(featured)))
	if i < 0 {
		i += len(featured)
	}
	return featured[i]
}
