package domain

import (
	"testing"
	"time"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("Should create user with normalized email", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("  Test.User@Gmail.COM  ")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if user.Email != "test.user@gmail.com" {
			t.Errorf("Expected normalized email, got %s", user.Email)
		}

		if user.ID == "" {
			t.Error("Expected an id to be generated")
		}

		if user.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("Should fail with invalid email", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("invalid-email-format")
		if err != ErrInvalidEmail {
			t.Errorf("Expected ErrInvalidEmail, got %v", err)
		}
	})
}

func TestUserPassword(t *testing.T) {
	t.Parallel()

	t.Run("Should hash password and update timestamp", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("test@test.com")
		oldUpdatedAt := user.UpdatedAt

		time.Sleep(1 * time.Millisecond)

		if err := user.SetPassword("superSecret123"); err != nil {
			t.Fatalf("Expected no error setting password, got %v", err)
		}

		if user.PasswordHash == "" || user.PasswordHash == "superSecret123" {
			t.Error("Password should be hashed")
		}

		if !user.UpdatedAt.After(oldUpdatedAt) {
			t.Error("UpdatedAt should move forward after setting password")
		}
	})

	t.Run("Should validate password length", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("test@test.com")

		if err := user.SetPassword("short"); err != ErrPasswordTooShort {
			t.Errorf("Expected ErrPasswordTooShort, got %v", err)
		}
	})

	t.Run("Authenticate maps mismatches to ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("test@test.com")
		_ = user.SetPassword("correctPassword")

		if err := user.Authenticate("correctPassword"); err != nil {
			t.Errorf("Expected password to match, got error: %v", err)
		}

		if err := user.Authenticate("wrongPassword"); err != ErrInvalidCredentials {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}
