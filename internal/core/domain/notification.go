package domain

import (
	"errors"
	"time"
)

var ErrNotificationNotFound = errors.New("notification not found")

const (
	NotificationMissedHabit    = "missed_habit"
	NotificationLowConsistency = "low_consistency"
)

// Notification is a server generated message. Read only ever moves from
// false to true.
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"-" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Read      bool      `json:"read" db:"read"`
}

// NotificationDraft is the output of a notification rule before persistence.
type NotificationDraft struct {
	Kind    string
	Message string
}
