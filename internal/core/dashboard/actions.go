package dashboard

import (
	"context"
	"errors"
	"strings"
)

// Every mutation writes first and then re-reads server state; nothing is
// changed locally. A write the server answered (whatever the status) is
// followed by the reload, while a transport failure ends the action.

// reached reports whether the server received the write.
func reached(err error) bool {
	var se *StatusError
	return err == nil || errors.Is(err, ErrUnauthenticated) || errors.As(err, &se)
}

func (d *Dashboard) afterWrite(ctx context.Context, writeErr error, reload func(context.Context) error) error {
	if !reached(writeErr) {
		return writeErr
	}
	return errors.Join(writeErr, reload(ctx))
}

// CreateHabit adds a habit. A blank name is ignored without a request.
func (d *Dashboard) CreateHabit(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return d.afterWrite(ctx, d.api.CreateHabit(ctx, name), d.Reload)
}

// RenameHabit renames a habit. A blank name is ignored without a request.
func (d *Dashboard) RenameHabit(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return d.afterWrite(ctx, d.api.RenameHabit(ctx, id, name), d.Reload)
}

func (d *Dashboard) DeleteHabit(ctx context.Context, id string) error {
	return d.afterWrite(ctx, d.api.DeleteHabit(ctx, id), d.Reload)
}

// ToggleCompletion flips habitID on dateKey server-side, then reloads the
// month so the checkbox shows what the server stored.
func (d *Dashboard) ToggleCompletion(ctx context.Context, habitID, dateKey string) error {
	return d.afterWrite(ctx, d.api.ToggleCompletion(ctx, habitID, dateKey), d.Reload)
}

// MarkNotificationRead marks one notification read and refreshes only the
// notification panel.
func (d *Dashboard) MarkNotificationRead(ctx context.Context, id int64) error {
	return d.afterWrite(ctx, d.api.MarkNotificationRead(ctx, id), d.RefreshNotifications)
}
