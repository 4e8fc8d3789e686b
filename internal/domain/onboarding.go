package domain

import "time"

// QuestionKey names one answer field collected by the onboarding quiz.
type QuestionKey string

// Question keys, in questionnaire order.
const (
	KeyGender             QuestionKey = "gender"
	KeyBirthDate          QuestionKey = "birthDate"
	KeyAge                QuestionKey = "age"
	KeySpiritualState     QuestionKey = "spiritualState"
	KeyPrayerFrequency    QuestionKey = "prayerFrequency"
	KeyBiggestStruggle    QuestionKey = "biggestStruggle"
	KeyCurrentStruggle    QuestionKey = "currentStruggle"
	KeyFeelsDistant       QuestionKey = "feelsDistant"
	KeySeeking            QuestionKey = "seeking"
	KeyTemptationStrength QuestionKey = "temptationStrength"
	KeyDoubtFrequency     QuestionKey = "doubtFrequency"
	KeyMotivation         QuestionKey = "motivation"
	KeyWantsDailyGuidance QuestionKey = "wantsDailyGuidance"
	KeyGuidanceStyle      QuestionKey = "guidanceStyle"
)

// OnboardingAnswers maps question keys to scalar answers. Values are
// string, bool or float64, which is also what a JSON round trip yields.
type OnboardingAnswers map[QuestionKey]interface{}

// Clone returns a shallow copy; values are immutable scalars.
func (a OnboardingAnswers) Clone() OnboardingAnswers {
	out := make(OnboardingAnswers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// String returns a string answer.
func (a OnboardingAnswers) String(key QuestionKey) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// Bool returns a boolean answer.
func (a OnboardingAnswers) Bool(key QuestionKey) (bool, bool) {
	b, ok := a[key].(bool)
	return b, ok
}

// Number returns a numeric answer.
func (a OnboardingAnswers) Number(key QuestionKey) (float64, bool) {
	f, ok := a[key].(float64)
	return f, ok
}

// AgeOn computes whole years between birth and now, counting a year only once
// the birthday has passed.
func AgeOn(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
