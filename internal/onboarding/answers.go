package onboarding

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ashureev/bibleai/internal/domain"
)

var (
	// ErrUnknownQuestion is returned for keys outside the questionnaire.
	ErrUnknownQuestion = errors.New("unknown onboarding question")
	// ErrInvalidAnswer is returned when a value does not fit its question.
	ErrInvalidAnswer = errors.New("invalid onboarding answer")
)

// isoLayout matches the millisecond UTC timestamps the mobile client stores.
const isoLayout = "2006-01-02T15:04:05.000Z"

// normalizeAnswer validates value for key and converts it to the stored
// representation (string, bool or float64).
func normalizeAnswer(key domain.QuestionKey, value interface{}) (interface{}, error) {
	if key == domain.KeyAge {
		n, ok := toFloat(value)
		if !ok || n < 0 {
			return nil, fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidAnswer, key)
		}
		return n, nil
	}

	q, ok := question(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestion, key)
	}

	switch q.Type {
	case StepDatePicker:
		birth, err := parseBirthDate(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAnswer, key, err)
		}
		return birth.UTC().Format(isoLayout), nil

	case StepSlider:
		n, ok := toFloat(value)
		if !ok || n < 0 || n > 1 {
			return nil, fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidAnswer, key)
		}
		return n, nil

	case StepSingle:
		if q.Boolean {
			switch v := value.(type) {
			case bool:
				return v, nil
			case string:
				switch strings.ToLower(v) {
				case "yes", "true":
					return true, nil
				case "no", "false":
					return false, nil
				}
			}
			return nil, fmt.Errorf("%w: %s must be yes or no", ErrInvalidAnswer, key)
		}
		s, ok := value.(string)
		if ok {
			for _, o := range q.Options {
				if o.Value == s {
					return s, nil
				}
			}
		}
		return nil, fmt.Errorf("%w: %s does not accept %v", ErrInvalidAnswer, key, value)
	}
	return nil, fmt.Errorf("%w: %s takes no answer", ErrInvalidAnswer, key)
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func parseBirthDate(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", v)
	}
	return time.Time{}, fmt.Errorf("unsupported type %T", value)
}
