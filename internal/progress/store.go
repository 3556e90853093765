// Package progress records completed lessons and games and the points they award.
package progress

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrAlreadyCompleted is returned when a learner completes the same content twice.
var ErrAlreadyCompleted = errors.New("content already completed")

// Completion is one finished lesson or game.
type Completion struct {
	ID          string    `json:"id"`
	LearnerID   string    `json:"learnerId"`
	ContentID   string    `json:"contentId"`
	Points      int       `json:"points"`
	CompletedAt time.Time `json:"completedAt"`
}

// Store persists completions.
type Store interface {
	AddCompletion(ctx context.Context, c Completion) (Completion, error)
	ListCompletions(ctx context.Context, learnerID string) ([]Completion, error)
	HasCompleted(ctx context.Context, learnerID, contentID string) (bool, error)
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	completions map[string][]Completion // learner id -> completions
	mu          sync.RWMutex
}

// NewMemoryStore creates a new in-memory completion store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		completions: make(map[string][]Completion),
	}
}

func (s *MemoryStore) AddCompletion(_ context.Context, c Completion) (Completion, error) {
	if c.LearnerID == "" || c.ContentID == "" {
		return Completion{}, fmt.Errorf("learner_id and content_id are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.completions[c.LearnerID] {
		if existing.ContentID == c.ContentID {
			return Completion{}, fmt.Errorf("%s: %w", c.ContentID, ErrAlreadyCompleted)
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}
	s.completions[c.LearnerID] = append(s.completions[c.LearnerID], c)
	return c, nil
}

func (s *MemoryStore) ListCompletions(_ context.Context, learnerID string) ([]Completion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.completions[learnerID]), nil
}

func (s *MemoryStore) HasCompleted(_ context.Context, learnerID, contentID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.completions[learnerID], func(c Completion) bool {
		return c.ContentID == contentID
	}), nil
}
