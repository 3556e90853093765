package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/content"
)

// Catalog returns an item as a given grade would see it, failing with
// content.ErrNotFound or content.ErrNotAppropriate.
type Catalog interface {
	Get(ctx context.Context, id string, g content.Grade) (content.Item, error)
}

// Summary aggregates a learner's progress.
type Summary struct {
	LearnerID   string       `json:"learnerId"`
	TotalPoints int          `json:"totalPoints"`
	Completed   int          `json:"completed"`
	Completions []Completion `json:"completions"`
}

// Service awards points for completed content.
type Service struct {
	store   Store
	catalog Catalog
	events  EventLogger
}

// NewService creates a progress service. A nil store uses an in-memory store.
func NewService(store Store, catalog Catalog) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Service{store: store, catalog: catalog, events: NopEventLogger{}}
}

// WithEventLogger records completions and grade-band denials to l.
func (s *Service) WithEventLogger(l EventLogger) *Service {
	if l != nil {
		s.events = l
	}
	return s
}

// Complete records that the learner finished contentID. The content must be
// appropriate for the learner's grade and may only be completed once.
func (s *Service) Complete(ctx context.Context, learner content.Learner, contentID string) (Completion, error) {
	if learner.ID == "" {
		return Completion{}, fmt.Errorf("learner id is required")
	}

	it, err := s.catalog.Get(ctx, contentID, learner.Grade)
	if err != nil {
		if errors.Is(err, content.ErrNotAppropriate) {
			s.logEvent(ctx, Event{
				LearnerID: learner.ID,
				EventType: EventContentDenied,
				Data:      map[string]any{"content_id": contentID, "grade": int(learner.Grade)},
			})
		}
		return Completion{}, err
	}

	// The unique constraint in the store still catches concurrent completions.
	done, err := s.store.HasCompleted(ctx, learner.ID, it.ID)
	if err != nil {
		return Completion{}, fmt.Errorf("checking completion: %w", err)
	}
	if done {
		return Completion{}, fmt.Errorf("%s: %w", it.ID, ErrAlreadyCompleted)
	}

	c, err := s.store.AddCompletion(ctx, Completion{
		LearnerID: learner.ID,
		ContentID: it.ID,
		Points:    it.PointsReward,
	})
	if err != nil {
		return Completion{}, err
	}

	slog.Info("content completed",
		"learner_id", learner.ID,
		"content_id", it.ID,
		"points", c.Points,
	)
	s.logEvent(ctx, Event{
		LearnerID: learner.ID,
		EventType: EventContentCompleted,
		Data:      map[string]any{"content_id": it.ID, "points": c.Points},
		CreatedAt: c.CompletedAt,
	})
	return c, nil
}

// logEvent never fails the caller; the completion is already recorded.
func (s *Service) logEvent(ctx context.Context, e Event) {
	if err := s.events.LogEvent(ctx, e); err != nil {
		slog.Warn("failed to log event", "type", e.EventType, "learner_id", e.LearnerID, "error", err)
	}
}

// Summary returns the learner's completions and point total.
func (s *Service) Summary(ctx context.Context, learnerID string) (Summary, error) {
	completions, err := s.store.ListCompletions(ctx, learnerID)
	if err != nil {
		return Summary{}, fmt.Errorf("listing completions: %w", err)
	}

	sum := Summary{
		LearnerID:   learnerID,
		Completed:   len(completions),
		Completions: completions,
	}
	if sum.Completions == nil {
		sum.Completions = []Completion{}
	}
	for _, c := range completions {
		sum.TotalPoints += c.Points
	}
	return sum, nil
}
