package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

type PostgresNotificationRepository struct {
	db *sqlx.DB
}

func NewPostgresNotificationRepository(db *sqlx.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
        INSERT INTO notifications (user_id, message, created_at)
        VALUES ($1, $2, $3)
        RETURNING id`

	if err := r.db.QueryRowxContext(ctx, query, n.UserID, n.Message, n.CreatedAt).Scan(&n.ID); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) ExistsWithMessage(ctx context.Context, userID, message string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM notifications WHERE user_id = $1 AND message = $2)`
	if err := r.db.GetContext(ctx, &exists, query, userID, message); err != nil {
		return false, fmt.Errorf("check notification: %w", err)
	}
	return exists, nil
}

func (r *PostgresNotificationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `SELECT id, user_id, message, created_at, read FROM notifications
        WHERE user_id = $1 ORDER BY id DESC`

	out := []*domain.Notification{}
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// MarkRead never clears the flag; repeating it still matches the row.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id int64, userID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return expectOne(res, domain.ErrNotificationNotFound)
}
