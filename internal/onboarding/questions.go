package onboarding

import "github.com/ashureev/bibleai/internal/domain"

// StepType is how the client renders a questionnaire step.
type StepType string

const (
	StepSingle     StepType = "single"
	StepSlider     StepType = "slider"
	StepDatePicker StepType = "datepicker"
	StepVision     StepType = "vision"
)

// Option is one selectable answer.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Sublabel string `json:"sublabel,omitempty"`
}

// Question is one step of the linear questionnaire. Vision steps carry no key.
type Question struct {
	Key      domain.QuestionKey `json:"key,omitempty"`
	Title    string             `json:"title"`
	Subtitle string             `json:"subtitle,omitempty"`
	Type     StepType           `json:"type"`
	Options  []Option           `json:"options,omitempty"`
	// Boolean steps are answered yes/no and stored as true/false.
	Boolean bool `json:"boolean,omitempty"`
}

var yesNo = []Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}}

var questions = []Question{
	{
		Key: domain.KeyGender, Type: StepSingle,
		Title:    "What is your gender?",
		Subtitle: "This helps us personalize your spiritual guidance.",
		Options:  []Option{{Value: "male", Label: "Male"}, {Value: "female", Label: "Female"}, {Value: "other", Label: "Other"}},
	},
	{
		Key: domain.KeyBirthDate, Type: StepDatePicker,
		Title:    "When were you born?",
		Subtitle: "This helps us personalize your spiritual guidance.",
	},
	{
		Key: domain.KeySpiritualState, Type: StepSingle,
		Title:    "How would you describe your current spiritual state?",
		Subtitle: "Be honest - there's no judgment here.",
		Options: []Option{
			{Value: "lost", Label: "Lost", Sublabel: "Searching for direction"},
			{Value: "searching", Label: "Searching", Sublabel: "Exploring my faith"},
			{Value: "returning", Label: "Returning", Sublabel: "Coming back to God"},
			{Value: "strong", Label: "Strong", Sublabel: "Growing deeper"},
		},
	},
	{
		Key: domain.KeyPrayerFrequency, Type: StepSingle,
		Title:    "How often do you pray or reflect?",
		Subtitle: "Understanding your current habits helps us guide you.",
		Options: []Option{
			{Value: "rarely", Label: "Rarely", Sublabel: "A few times a year"},
			{Value: "sometimes", Label: "Sometimes", Sublabel: "A few times a month"},
			{Value: "often", Label: "Often", Sublabel: "Several times a week"},
			{Value: "daily", Label: "Daily", Sublabel: "Every day"},
		},
	},
	{
		Key: domain.KeyBiggestStruggle, Type: StepSingle,
		Title:    "What is your biggest current struggle?",
		Subtitle: "We all face challenges. Let us help you overcome.",
		Options: []Option{
			{Value: "temptation", Label: "Temptation"},
			{Value: "doubt", Label: "Doubt"},
			{Value: "fear", Label: "Fear"},
			{Value: "lust", Label: "Lust"},
			{Value: "anxiety", Label: "Anxiety"},
			{Value: "loneliness", Label: "Loneliness"},
		},
	},
	{
		Key: domain.KeyCurrentStruggle, Type: StepSingle,
		Title:    "What do you struggle with most right now?",
		Subtitle: "Select the one that resonates most deeply.",
		Options: []Option{
			{Value: "anger", Label: "Anger", Sublabel: "Managing emotions"},
			{Value: "pride", Label: "Pride", Sublabel: "Humility struggles"},
			{Value: "laziness", Label: "Laziness", Sublabel: "Lack of motivation"},
			{Value: "envy", Label: "Envy", Sublabel: "Comparing to others"},
			{Value: "greed", Label: "Greed", Sublabel: "Material attachment"},
		},
	},
	{
		Key: domain.KeyFeelsDistant, Type: StepSingle, Boolean: true,
		Title:    "Do you feel distant from God sometimes?",
		Subtitle: "It's okay to feel this way.",
		Options:  yesNo,
	},
	{
		Key: domain.KeySeeking, Type: StepSingle,
		Title:    "What are you seeking most?",
		Subtitle: "What draws your heart right now?",
		Options: []Option{
			{Value: "peace", Label: "Peace", Sublabel: "Calm in the storm"},
			{Value: "discipline", Label: "Discipline", Sublabel: "Spiritual consistency"},
			{Value: "faith", Label: "Faith", Sublabel: "Deeper belief"},
			{Value: "purpose", Label: "Purpose", Sublabel: "Direction in life"},
			{Value: "love", Label: "Love", Sublabel: "Connection with others"},
		},
	},
	{
		Key: domain.KeyTemptationStrength, Type: StepSlider,
		Title:    "How strong is temptation in your daily life?",
		Subtitle: "Drag to indicate the intensity you experience.",
	},
	{
		Key: domain.KeyDoubtFrequency, Type: StepSingle,
		Title:    "How often do doubts appear?",
		Subtitle: "Doubt is part of the journey.",
		Options: []Option{
			{Value: "low", Label: "Rarely", Sublabel: "Faith is steady"},
			{Value: "medium", Label: "Sometimes", Sublabel: "Occasional questioning"},
			{Value: "high", Label: "Often", Sublabel: "Frequent struggles"},
		},
	},
	{
		Key: domain.KeyMotivation, Type: StepSingle,
		Title:    "What motivates you most?",
		Subtitle: "What drives your spiritual growth?",
		Options: []Option{
			{Value: "god", Label: "God", Sublabel: "His love and calling"},
			{Value: "destiny", Label: "Destiny", Sublabel: "Fulfilling my purpose"},
			{Value: "love", Label: "Love", Sublabel: "For family and others"},
			{Value: "strength", Label: "Becoming Stronger", Sublabel: "Personal growth"},
		},
	},
	{
		Key: domain.KeyWantsDailyGuidance, Type: StepSingle, Boolean: true,
		Title:    "Do you want daily spiritual guidance?",
		Subtitle: "We can send you personalized devotionals.",
		Options:  yesNo,
	},
	{
		Key: domain.KeyGuidanceStyle, Type: StepSingle,
		Title:    "Do you prefer gentle guidance or direct truth?",
		Subtitle: "How should we speak to your heart?",
		Options: []Option{
			{Value: "gentle", Label: "Gentle Guidance", Sublabel: "Encouraging and soft"},
			{Value: "direct", Label: "Direct Truth", Sublabel: "Clear and bold"},
		},
	},
	{
		Type:     StepVision,
		Title:    "Bible AI helps you grow consistently",
		Subtitle: "Your spiritual journey is about progress, not perfection.",
	},
}

// Questions returns the questionnaire steps in order.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

func question(key domain.QuestionKey) (Question, bool) {
	for _, q := range questions {
		if q.Key != "" && q.Key == key {
			return q, true
		}
	}
	return Question{}, false
}
