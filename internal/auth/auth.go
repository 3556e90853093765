// Package auth registers learners and issues the session tokens the API
// uses to look up a learner's grade and age group.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/content"
)

const (
	issuer            = "diglearners"
	roleLearner       = "learner"
	minPasswordLength = 6
	defaultTokenTTL   = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrInvalidRequest     = errors.New("invalid registration")
)

// Credentials is the login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest creates a learner account. Grade accepts 3 or "Grade 3".
type RegisterRequest struct {
	Username string        `json:"username"`
	Password string        `json:"password"`
	Grade    content.Grade `json:"grade"`
	AgeGroup string        `json:"ageGroup"`
}

// Session is the result of a successful login.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type claims struct {
	Username string `json:"username"`
	Grade    int    `json:"grade,omitempty"`
	AgeGroup string `json:"age_group,omitempty"`
	jwt.RegisteredClaims
}

// Service implements registration, login and token verification.
type Service struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates an auth service signing HS256 tokens with secret.
func NewService(users UserStore, secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if users == nil {
		users = NewMemoryUserStore()
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Service{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Register creates a learner account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return User{}, fmt.Errorf("%w: username is required", ErrInvalidRequest)
	}
	if len(req.Password) < minPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRequest, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         roleLearner,
		Grade:        req.Grade,
		AgeGroup:     strings.TrimSpace(req.AgeGroup),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return User{}, err
	}

	slog.Info("learner registered", "user_id", u.ID, "grade", int(u.Grade), "age_group", u.AgeGroup)
	return u, nil
}

// Login checks credentials and issues a session token.
func (s *Service) Login(ctx context.Context, creds Credentials) (Session, error) {
	u, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(creds.Username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("looking up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	now := s.now()
	expires := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: u.Username,
		Grade:    int(u.Grade),
		AgeGroup: u.AgeGroup,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("signing token: %w", err)
	}

	return Session{User: u, Token: signed, ExpiresAt: expires}, nil
}

// ParseToken verifies a session token and returns the learner it names.
func (s *Service) ParseToken(token string) (content.Learner, error) {
	if token == "" {
		return content.Learner{}, ErrInvalidToken
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return content.Learner{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return content.Learner{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return content.Learner{
		ID:       c.Subject,
		Grade:    content.ParseGrade(c.Grade),
		AgeGroup: c.AgeGroup,
	}, nil
}
