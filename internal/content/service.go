package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	// ErrNotFound is returned when a catalog item does not exist.
	ErrNotFound = errors.New("content not found")
	// ErrNotAppropriate is returned when an item exists but is outside the learner's grade band.
	ErrNotAppropriate = errors.New("content not appropriate for grade")
)

// Repository persists the catalog. ListByAgeGroup returns the items labelled
// with ageGroup plus items with no age group label.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	ListByAgeGroup(ctx context.Context, ageGroup string) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Upsert(ctx context.Context, items ...Item) error
}

// SameAgeGroup reports whether an item labelled itemGroup belongs in a listing
// for ageGroup. Unlabelled items belong everywhere.
func SameAgeGroup(itemGroup, ageGroup string) bool {
	itemGroup = strings.TrimSpace(itemGroup)
	return itemGroup == "" || strings.EqualFold(itemGroup, strings.TrimSpace(ageGroup))
}

// Service answers catalog queries for learners: a coarse age group query
// against the repository followed by the grade filter.
type Service struct {
	repo   Repository
	filter *Filter
}

// NewService creates a catalog service. A nil filter uses the fail-open default.
func NewService(repo Repository, filter *Filter) *Service {
	if filter == nil {
		filter = defaultFilter
	}
	return &Service{repo: repo, filter: filter}
}

// Filter returns the service's eligibility filter.
func (s *Service) Filter() *Filter {
	return s.filter
}

// ForLearner returns the content a learner may see.
func (s *Service) ForLearner(ctx context.Context, l Learner) ([]Item, error) {
	return s.ForGrade(ctx, l.AgeGroup, l.Grade)
}

// ForGrade lists the catalog for an age group (all groups when empty) and
// narrows it to grade g.
func (s *Service) ForGrade(ctx context.Context, ageGroup string, g Grade) ([]Item, error) {
	var (
		items []Item
		err   error
	)
	if strings.TrimSpace(ageGroup) == "" {
		items, err = s.repo.List(ctx)
	} else {
		items, err = s.repo.ListByAgeGroup(ctx, ageGroup)
	}
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}

	filtered := s.filter.Apply(items, g)
	slog.Debug("catalog filtered",
		"age_group", ageGroup,
		"grade", int(g),
		"candidates", len(items),
		"eligible", len(filtered),
	)
	return filtered, nil
}

// Get returns one item as grade g would see it.
func (s *Service) Get(ctx context.Context, id string, g Grade) (Item, error) {
	it, err := s.repo.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	out := s.filter.Apply([]Item{it}, g)
	if len(out) == 0 {
		return Item{}, fmt.Errorf("%s for %q: %w", id, g.String(), ErrNotAppropriate)
	}
	return out[0], nil
}
