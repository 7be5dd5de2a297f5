package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrHabitNameEmpty     = errors.New("habit name cannot be empty")
	ErrHabitNameTooLong   = errors.New("habit name is too long (max 100 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrHabitNotFound      = errors.New("habit not found")
	ErrUnauthorized       = errors.New("resource belongs to another user")
)

const MaxNameLen = 100

// Habit is a user-defined recurring task tracked per day. The identity is
// immutable once the server has assigned it; only the name can change.
type Habit struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"-" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Position  int64     `json:"-" db:"position"`
	CreatedAt time.Time `json:"-" db:"created_at"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrHabitNameEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLen {
		return "", ErrHabitNameTooLong
	}
	return trimmed, nil
}

func NewHabit(userID, name string) (*Habit, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}

	clean, err := validateName(name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Habit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      clean,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (h *Habit) Rename(name string) error {
	clean, err := validateName(name)
	if err != nil {
		return err
	}

	h.Name = clean
	h.UpdatedAt = time.Now().UTC()
	return nil
}
