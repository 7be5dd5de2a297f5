package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

func withMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = mockDB.Close()
	})
	return sqlx.NewDb(mockDB, "pgx"), mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestPgCode(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(sql.ErrNoRows))
}

func TestPostgresHabitRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Create returns the position", func(t *testing.T) {
		db, mock := withMockDB(t)
		h := &domain.Habit{ID: "h1", UserID: "u1", Name: "Run", CreatedAt: now, UpdatedAt: now}

		mock.ExpectQuery(q("INSERT INTO habits")).
			WithArgs("h1", "u1", "Run", now, now).
			WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(7))

		require.NoError(t, NewPostgresHabitRepository(db).Create(ctx, h))
		assert.Equal(t, int64(7), h.Position)
	})

	t.Run("Create maps a missing user", func(t *testing.T) {
		db, mock := withMockDB(t)
		mock.ExpectQuery(q("INSERT INTO habits")).WillReturnError(&pgconn.PgError{Code: "23503"})

		err := NewPostgresHabitRepository(db).Create(ctx, &domain.Habit{ID: "h1"})
		assert.ErrorIs(t, err, domain.ErrHabitInvalidUserID)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		db, mock := withMockDB(t)
		mock.ExpectQuery(q("FROM habits WHERE id = $1")).WithArgs("nope").WillReturnError(sql.ErrNoRows)

		_, err := NewPostgresHabitRepository(db).GetByID(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("ListByUserID orders by position", func(t *testing.T) {
		db, mock := withMockDB(t)
		rows := sqlmock.NewRows([]string{"id", "user_id", "name", "position", "created_at", "updated_at"}).
			AddRow("h1", "u1", "Run", 1, now, now).
			AddRow("h2", "u1", "Read", 2, now, now)
		mock.ExpectQuery(q("ORDER BY position ASC")).WithArgs("u1").WillReturnRows(rows)

		habits, err := NewPostgresHabitRepository(db).ListByUserID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, habits, 2)
		assert.Equal(t, "Read", habits[1].Name)
	})

	t.Run("Update and Delete report missing rows", func(t *testing.T) {
		db, mock := withMockDB(t)
		mock.ExpectExec(q("UPDATE habits SET name = $1")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(q("DELETE FROM habits WHERE id = $1")).WithArgs("h1").WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgresHabitRepository(db)
		assert.ErrorIs(t, repo.Update(ctx, &domain.Habit{ID: "gone", Name: "x"}), domain.ErrHabitNotFound)
		assert.NoError(t, repo.Delete(ctx, "h1"))
	})
}

func TestPostgresCompletionRepository(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("Find passes the date as a key", func(t *testing.T) {
		db, mock := withMockDB(t)
		mock.ExpectQuery(q("date = $3::date")).
			WithArgs("u1", "h1", "2024-03-05").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "habit_id", "date"}).AddRow("c1", "u1", "h1", day))

		c, err := NewPostgresCompletionRepository(db).Find(ctx, "u1", "h1", day)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "2024-03-05", c.DateKey())
	})

	t.Run("Find returns nil when absent", func(t *testing.T) {
		db, mock := withMockDB(t)
		mock.ExpectQuery(q("FROM completions")).WillReturnError(sql.ErrNoRows)

		c, err := NewPostgresCompletionRepository(db).Find(ctx, "u1", "h1", day)
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("Create maps the unique constraint", func(t *testing.T) {
		db, mock := withMockDB(t)
		mock.ExpectQuery(q("INSERT INTO completions")).
			WithArgs("u1", "h1", "2024-03-05").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := NewPostgresCompletionRepository(db).Create(ctx, &domain.Completion{UserID: "u1", HabitID: "h1", Date: day})
		assert.ErrorIs(t, err, domain.ErrCompletionExists)
	})

	t.Run("Range and count", func(t *testing.T) {
		db, mock := withMockDB(t)
		mock.ExpectQuery(q("BETWEEN $2::date AND $3::date")).
			WithArgs("u1", "2024-03-01", "2024-03-31").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "habit_id", "date"}).AddRow("c1", "u1", "h1", day))
		mock.ExpectQuery(q("SELECT COUNT(*) FROM completions")).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(20))

		repo := NewPostgresCompletionRepository(db)
		rows, err := repo.ListByUserAndRange(ctx, "u1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, rows, 1)

		n, err := repo.CountByUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 20, n)
	})
}

func TestPostgresNotificationRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	db, mock := withMockDB(t)
	repo := NewPostgresNotificationRepository(db)

	mock.ExpectQuery(q("SELECT EXISTS")).WithArgs("u1", "hello").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(q("INSERT INTO notifications")).WithArgs("u1", "hello", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(q("ORDER BY id DESC")).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "message", "created_at", "read"}).
			AddRow(3, "u1", "hello", now, false))
	mock.ExpectExec(q("UPDATE notifications SET read = TRUE")).WithArgs(int64(3), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE notifications SET read = TRUE")).WithArgs(int64(9), "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	exists, err := repo.ExistsWithMessage(ctx, "u1", "hello")
	require.NoError(t, err)
	assert.False(t, exists)

	n := &domain.Notification{UserID: "u1", Message: "hello", CreatedAt: now}
	require.NoError(t, repo.Create(ctx, n))
	assert.Equal(t, int64(3), n.ID)

	list, err := repo.ListByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Read)

	assert.NoError(t, repo.MarkRead(ctx, 3, "u1"))
	assert.ErrorIs(t, repo.MarkRead(ctx, 9, "u1"), domain.ErrNotificationNotFound)
}

func TestPostgresUserRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Create maps duplicate emails", func(t *testing.T) {
		db, mock := withMockDB(t)
		mock.ExpectExec(q("INSERT INTO users")).
			WithArgs("u1", "a@b.c", "hash", now, now).
			WillReturnError(&pq.Error{Code: "23505"})

		err := NewPostgresUserRepository(db).Create(ctx, &domain.User{ID: "u1", Email: "a@b.c", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("GetByEmail", func(t *testing.T) {
		db, mock := withMockDB(t)
		mock.ExpectQuery(q("FROM users WHERE email = $1")).WithArgs("a@b.c").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}).
				AddRow("u1", "a@b.c", "hash", now, now))

		u, err := NewPostgresUserRepository(db).GetByEmail(ctx, "a@b.c")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		db, mock := withMockDB(t)
		mock.ExpectQuery(q("FROM users WHERE id = $1")).WithArgs("nope").WillReturnError(sql.ErrNoRows)

		_, err := NewPostgresUserRepository(db).GetByID(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
