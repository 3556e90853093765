package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

const itemColumns = `id, title, description, subject, game_type, difficulty, grade_level, age_group, points_reward, estimated_time`

// PostgresRepository is a PostgreSQL-backed Repository implementation.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a repository over the content_items table.
func NewPostgresRepository(pool *pgxpool.Pool) (*PostgresRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	return r.query(ctx,
		`SELECT `+itemColumns+`
		 FROM content_items
		 ORDER BY id ASC`,
	)
}

func (r *PostgresRepository) ListByAgeGroup(ctx context.Context, ageGroup string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	return r.query(ctx,
		`SELECT `+itemColumns+`
		 FROM content_items
		 WHERE age_group = '' OR lower(age_group) = lower(trim($1))
		 ORDER BY id ASC`,
		ageGroup,
	)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (Item, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx,
		`SELECT `+itemColumns+`
		 FROM content_items
		 WHERE id = $1`,
		id,
	)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return Item{}, fmt.Errorf("get content: %w", err)
	}
	return it, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, items ...Item) error {
	if len(items) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	batch := &pgx.Batch{}
	for _, it := range items {
		if it.ID == "" {
			return fmt.Errorf("content id is required")
		}
		batch.Queue(
			`INSERT INTO content_items (`+itemColumns+`, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			 ON CONFLICT (id) DO UPDATE SET
			   title = EXCLUDED.title,
			   description = EXCLUDED.description,
			   subject = EXCLUDED.subject,
			   game_type = EXCLUDED.game_type,
			   difficulty = EXCLUDED.difficulty,
			   grade_level = EXCLUDED.grade_level,
			   age_group = EXCLUDED.age_group,
			   points_reward = EXCLUDED.points_reward,
			   estimated_time = EXCLUDED.estimated_time,
			   updated_at = NOW()`,
			it.ID,
			it.Title,
			it.Description,
			it.Subject,
			it.GameType,
			string(it.Difficulty),
			nullIfUnknown(it.GradeLevel),
			it.AgeGroup,
			it.PointsReward,
			it.EstimatedTime,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for _, it := range items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert content %s: %w", it.ID, err)
		}
	}
	return nil
}

// HealthCheck verifies the database connection is alive.
func (r *PostgresRepository) HealthCheck(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query content: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content: %w", err)
	}
	return items, nil
}

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	var difficulty string
	var grade *int32
	err := row.Scan(
		&it.ID,
		&it.Title,
		&it.Description,
		&it.Subject,
		&it.GameType,
		&difficulty,
		&grade,
		&it.AgeGroup,
		&it.PointsReward,
		&it.EstimatedTime,
	)
	if err != nil {
		return Item{}, err
	}
	it.Difficulty = NormalizeDifficulty(difficulty)
	if grade != nil {
		it.GradeLevel = ParseGrade(int64(*grade))
	}
	return it, nil
}

func nullIfUnknown(g Grade) any {
	if !g.Known() {
		return nil
	}
	return int32(g)
}
