package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

// Dates travel as YYYY-MM-DD strings cast to DATE so that no session time
// zone can shift them.
type PostgresCompletionRepository struct {
	db *sqlx.DB
}

func NewPostgresCompletionRepository(db *sqlx.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

const completionColumns = `id, user_id, habit_id, date`

func (r *PostgresCompletionRepository) Find(ctx context.Context, userID, habitID string, date time.Time) (*domain.Completion, error) {
	query := `SELECT ` + completionColumns + ` FROM completions
        WHERE user_id = $1 AND habit_id = $2 AND date = $3::date`

	var c domain.Completion
	err := r.db.GetContext(ctx, &c, query, userID, habitID, date.Format(domain.DateLayout))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find completion: %w", err)
	}
	return &c, nil
}

func (r *PostgresCompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	query := `
        INSERT INTO completions (user_id, habit_id, date)
        VALUES ($1, $2, $3::date)
        RETURNING id`

	err := r.db.QueryRowxContext(ctx, query, c.UserID, c.HabitID, c.DateKey()).Scan(&c.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrCompletionExists
		case isForeignKeyViolation(err):
			return domain.ErrHabitNotFound
		}
		return fmt.Errorf("insert completion: %w", err)
	}
	return nil
}

func (r *PostgresCompletionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM completions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}

func (r *PostgresCompletionRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Completion, error) {
	query := `SELECT ` + completionColumns + ` FROM completions
        WHERE user_id = $1 AND date BETWEEN $2::date AND $3::date
        ORDER BY date ASC, habit_id ASC`

	out := []*domain.Completion{}
	err := r.db.SelectContext(ctx, &out, query, userID, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	return out, nil
}

func (r *PostgresCompletionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Completion, error) {
	query := `SELECT ` + completionColumns + ` FROM completions WHERE user_id = $1 ORDER BY date ASC, habit_id ASC`

	out := []*domain.Completion{}
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	return out, nil
}

func (r *PostgresCompletionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM completions WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return n, nil
}
