package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Telesphore-Uwabera/DigLearners-sub001/internal/content"
)

const (
	dbTimeout         = 5 * time.Second
	pgUniqueViolation = "23505"
)

// PostgresUserStore is a PostgreSQL-backed UserStore implementation.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStore creates a user store over the users table.
func NewPostgresUserStore(pool *pgxpool.Pool) (*PostgresUserStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresUserStore{pool: pool}, nil
}

func (s *PostgresUserStore) CreateUser(ctx context.Context, u User) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var grade any
	if u.Grade.Known() {
		grade = int32(u.Grade)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, role, grade, age_group, created_at)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)`,
		u.ID,
		u.Username,
		u.PasswordHash,
		u.Role,
		grade,
		u.AgeGroup,
		u.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%s: %w", u.Username, ErrUserExists)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var u User
	var grade *int32
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, username, password_hash, role, grade, age_group, created_at
		 FROM users
		 WHERE lower(username) = lower($1)
		 LIMIT 1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &grade, &u.AgeGroup, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("%s: %w", username, ErrUserNotFound)
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	if grade != nil {
		u.Grade = content.ParseGrade(int64(*grade))
	}
	return u, nil
}
