package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dbTimeout         = 5 * time.Second
	pgUniqueViolation = "23505"
)

// PostgresStore is a PostgreSQL-backed Store implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a completion store over the completions table.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) AddCompletion(ctx context.Context, c Completion) (Completion, error) {
	if c.LearnerID == "" || c.ContentID == "" {
		return Completion{}, fmt.Errorf("learner_id and content_id are required")
	}
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO completions (id, learner_id, content_id, points, completed_at)
		 VALUES ($1::uuid, $2, $3, $4, $5)
		 RETURNING completed_at`,
		c.ID,
		c.LearnerID,
		c.ContentID,
		c.Points,
		c.CompletedAt,
	).Scan(&c.CompletedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Completion{}, fmt.Errorf("%s: %w", c.ContentID, ErrAlreadyCompleted)
		}
		return Completion{}, fmt.Errorf("insert completion: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListCompletions(ctx context.Context, learnerID string) ([]Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id::text, learner_id, content_id, points, completed_at
		 FROM completions
		 WHERE learner_id = $1
		 ORDER BY completed_at ASC, id ASC`,
		learnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		var c Completion
		if err := rows.Scan(&c.ID, &c.LearnerID, &c.ContentID, &c.Points, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) HasCompleted(ctx context.Context, learnerID, contentID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var done bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM completions WHERE learner_id = $1 AND content_id = $2)`,
		learnerID, contentID,
	).Scan(&done)
	if err != nil {
		return false, fmt.Errorf("query completion: %w", err)
	}
	return done, nil
}
