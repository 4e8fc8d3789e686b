// Package onboarding tracks the first-launch questionnaire: the accumulated
// answers and whether the user has finished it.
package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/bibleai/internal/domain"
	"github.com/ashureev/bibleai/internal/store"
)

// Status is the tri-state completion flag used for startup routing.
type Status int

const (
	// StatusUnknown means Load has not finished yet.
	StatusUnknown Status = iota
	StatusNotCompleted
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusNotCompleted:
		return "not_completed"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its string form.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

const completedValue = "true"

// Store owns the onboarding answers. Answers are held in memory until
// Complete writes them together with the completion flag.
type Store struct {
	repo         store.Repository
	completedKey string
	dataKey      string
	logger       *slog.Logger
	now          func() time.Time

	mu      sync.RWMutex
	status  Status
	answers domain.OnboardingAnswers
}

// NewStore creates a store in StatusUnknown.
func NewStore(repo store.Repository, keys store.Keys, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		repo:         repo,
		completedKey: keys.OnboardingCompleted,
		dataKey:      keys.OnboardingData,
		logger:       logger.With("component", "onboarding"),
		now:          time.Now,
		answers:      domain.OnboardingAnswers{},
	}
}

// Load restores the flag and answers. A read failure leaves the store
// NotCompleted and is returned for logging; corrupt answers are discarded.
func (s *Store) Load(ctx context.Context) error {
	flag, err := s.repo.Get(ctx, s.completedKey)
	if err != nil {
		s.setLoaded(StatusNotCompleted, domain.OnboardingAnswers{})
		return fmt.Errorf("load onboarding flag: %w", err)
	}
	raw, err := s.repo.Get(ctx, s.dataKey)
	if err != nil {
		s.setLoaded(StatusNotCompleted, domain.OnboardingAnswers{})
		return fmt.Errorf("load onboarding answers: %w", err)
	}

	answers := domain.OnboardingAnswers{}
	if raw != nil {
		var stored map[string]interface{}
		if err := json.Unmarshal(raw, &stored); err != nil {
			s.logger.Warn("discarding corrupt onboarding answers", "key", s.dataKey, "error", err)
			if delErr := s.repo.Delete(ctx, s.dataKey); delErr != nil {
				s.logger.Warn("failed to clear corrupt onboarding answers", "error", delErr)
			}
		}
		for k, v := range stored {
			key := domain.QuestionKey(k)
			norm, err := normalizeAnswer(key, v)
			if err != nil {
				s.logger.Warn("dropping stored onboarding answer", "question", k, "error", err)
				continue
			}
			answers[key] = norm
		}
	}

	status := StatusNotCompleted
	if string(flag) == completedValue {
		status = StatusCompleted
	}
	s.setLoaded(status, answers)
	return nil
}

func (s *Store) setLoaded(status Status, answers domain.OnboardingAnswers) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.answers = answers
}

// Status returns the completion tri-state.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Answers returns a copy of the accumulated answers.
func (s *Store) Answers() domain.OnboardingAnswers {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.answers.Clone()
}

// UpdateAnswer sets one answer in memory without persisting it. Setting the
// birth date also derives the age.
func (s *Store) UpdateAnswer(key domain.QuestionKey, value interface{}) error {
	norm, err := normalizeAnswer(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[key] = norm
	if key == domain.KeyBirthDate {
		birth, _ := time.Parse(isoLayout, norm.(string))
		s.answers[domain.KeyAge] = float64(domain.AgeOn(birth, s.now().UTC()))
	}
	return nil
}

// Complete persists the completion flag and the answers in one transaction.
// The in-memory status flips to completed only after the write succeeds.
func (s *Store) Complete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.answers)
	if err != nil {
		return fmt.Errorf("encode onboarding answers: %w", err)
	}
	err = s.repo.SetMany(ctx, map[string][]byte{
		s.completedKey: []byte(completedValue),
		s.dataKey:      data,
	})
	if err != nil {
		return fmt.Errorf("complete onboarding: %w", err)
	}
	s.status = StatusCompleted
	s.logger.Info("onboarding completed", "answers", len(s.answers))
	return nil
}

// Reset clears the flag and answers from storage, then from memory.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.completedKey, s.dataKey); err != nil {
		return fmt.Errorf("reset onboarding: %w", err)
	}
	s.status = StatusNotCompleted
	s.answers = domain.OnboardingAnswers{}
	return nil
}
