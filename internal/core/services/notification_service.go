package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

const (
	missedDays           = 3
	lowConsistencyBelow  = 40
	missedMessageFormat  = "You missed '%s' for %d days. Try making it smaller (5 min) or set a reminder."
	lowConsistencyFormat = "Consistency is low this period (%d%%). Try focusing on 2-3 habits."
)

type NotificationService struct {
	repo domain.NotificationRepository
	now  func() time.Time
}

func NewNotificationService(repo domain.NotificationRepository, now func() time.Time) *NotificationService {
	if now == nil {
		now = time.Now
	}
	return &NotificationService{repo: repo, now: now}
}

// Publish stores drafts whose message the user has not received before.
func (s *NotificationService) Publish(ctx context.Context, userID string, drafts []domain.NotificationDraft) error {
	for _, d := range drafts {
		exists, err := s.repo.ExistsWithMessage(ctx, userID, d.Message)
		if err != nil {
			return fmt.Errorf("check notification: %w", err)
		}
		if exists {
			continue
		}

		n := &domain.Notification{
			UserID:    userID,
			Message:   d.Message,
			CreatedAt: s.now().UTC(),
		}
		if err := s.repo.Create(ctx, n); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
	}
	return nil
}

// List returns the user's notifications newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// MarkRead sets the read flag. Marking an already read notification is a
// no-op.
func (s *NotificationService) MarkRead(ctx context.Context, userID string, id int64) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// EvaluateRules produces the rule-based notifications.
//
// A habit is reported as missed when it was not done on any of the three days
// before today but was done at least once in the recent history. The
// consistency rule looks at the month's days that have any completion and
// fires below 40%.
func EvaluateRules(habits []*domain.Habit, recent, month domain.CompletionIndex, today time.Time) []domain.NotificationDraft {
	var drafts []domain.NotificationDraft

	for _, h := range habits {
		if len(recent) == 0 {
			break
		}

		history := 0
		for _, key := range recent.Dates() {
			if recent.Has(key, h.ID) {
				history++
			}
		}
		if history == 0 {
			continue
		}

		missing := 0
		for i := 1; i <= missedDays; i++ {
			if !recent.Has(today.AddDate(0, 0, -i).Format(domain.DateLayout), h.ID) {
				missing++
			}
		}
		if missing == missedDays {
			drafts = append(drafts, domain.NotificationDraft{
				Kind:    domain.NotificationMissedHabit,
				Message: fmt.Sprintf(missedMessageFormat, h.Name, missing),
			})
		}
	}

	dates := month.Dates()
	if len(dates) > 0 && len(habits) > 0 {
		done := 0
		for _, d := range dates {
			done += month.Count(d)
		}
		overall := percent(done, len(dates)*len(habits))
		if overall < lowConsistencyBelow {
			drafts = append(drafts, domain.NotificationDraft{
				Kind:    domain.NotificationLowConsistency,
				Message: fmt.Sprintf(lowConsistencyFormat, overall),
			})
		}
	}

	return drafts
}
