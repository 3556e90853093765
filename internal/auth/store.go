package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/content"
)

// User is a registered learner account.
type User struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	PasswordHash string        `json:"-"`
	Role         string        `json:"role"`
	Grade        content.Grade `json:"grade"`
	AgeGroup     string        `json:"ageGroup,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Learner returns the catalog view of the user.
func (u User) Learner() content.Learner {
	return content.Learner{ID: u.ID, Grade: u.Grade, AgeGroup: u.AgeGroup}
}

// UserStore persists user accounts. Usernames are case-insensitive.
type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

// MemoryUserStore is an in-memory implementation of UserStore.
type MemoryUserStore struct {
	users map[string]User
	mu    sync.RWMutex
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]User)}
}

func (s *MemoryUserStore) CreateUser(_ context.Context, u User) error {
	key := strings.ToLower(u.Username)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[key]; exists {
		return fmt.Errorf("%s: %w", u.Username, ErrUserExists)
	}
	s.users[key] = u
	return nil
}

func (s *MemoryUserStore) GetUserByUsername(_ context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(username)]
	if !ok {
		return User{}, fmt.Errorf("%s: %w", username, ErrUserNotFound)
	}
	return u, nil
}
