package domain

import (
	"context"
	"time"
)

type HabitRepository interface {
	// Create persists a new habit definition.
	Create(ctx context.Context, habit *Habit) error

	// GetByID retrieves a habit by its identifier.
	GetByID(ctx context.Context, id string) (*Habit, error)

	// ListByUserID returns the user's habits in creation order.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update persists a rename.
	Update(ctx context.Context, habit *Habit) error

	// Delete removes the habit together with all of its completions.
	Delete(ctx context.Context, id string) error
}

type CompletionRepository interface {
	// Find returns the completion of habitID on date, or nil when absent.
	Find(ctx context.Context, userID, habitID string, date time.Time) (*Completion, error)

	Create(ctx context.Context, c *Completion) error

	Delete(ctx context.Context, id string) error

	// ListByUserAndRange returns completions with from <= date <= to.
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]*Completion, error)

	// ListByUser returns every completion of the user, oldest first.
	ListByUser(ctx context.Context, userID string) ([]*Completion, error)

	CountByUser(ctx context.Context, userID string) (int, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error

	// ExistsWithMessage is used to deduplicate rule notifications.
	ExistsWithMessage(ctx context.Context, userID, message string) (bool, error)

	// ListByUserID returns notifications newest first.
	ListByUserID(ctx context.Context, userID string) ([]*Notification, error)

	MarkRead(ctx context.Context, id int64, userID string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type ModelStore interface {
	Save(ctx context.Context, model *PredictionModel) error

	// Load returns ErrModelNotFound when the user has no trained model.
	Load(ctx context.Context, userID string) (*PredictionModel, error)
}
