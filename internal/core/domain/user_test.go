package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

func TestNewUser(t *testing.T) {
	t.Run("Success: Email lowercased, timezone kept", func(t *testing.T) {
		u, err := domain.NewUser("u1", " Alice@Example.COM ", "Europe/Rome")

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.Equal(t, "Europe/Rome", u.Timezone)
	})

	t.Run("Success: Empty timezone defaults to UTC", func(t *testing.T) {
		u, err := domain.NewUser("u1", "alice@example.com", "")

		require.NoError(t, err)
		assert.Equal(t, "UTC", u.Timezone)
	})

	t.Run("Error: Invalid email", func(t *testing.T) {
		_, err := domain.NewUser("u1", "not-an-email", "UTC")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("Error: Unknown timezone name", func(t *testing.T) {
		_, err := domain.NewUser("u1", "alice@example.com", "Mars/Olympus")
		assert.ErrorIs(t, err, domain.ErrInvalidTimezone)
	})
}

func TestUser_Password(t *testing.T) {
	u, err := domain.NewUser("u1", "alice@example.com", "UTC")
	require.NoError(t, err)

	t.Run("Error: Too short", func(t *testing.T) {
		assert.ErrorIs(t, u.SetPassword("short"), domain.ErrPasswordTooShort)
	})

	t.Run("Success: Hash set and verifiable", func(t *testing.T) {
		require.NoError(t, u.SetPassword("correct-horse"))

		assert.NotEmpty(t, u.PasswordHash)
		assert.NotEqual(t, "correct-horse", u.PasswordHash)
		assert.NoError(t, u.CheckPassword("correct-horse"))
		assert.Error(t, u.CheckPassword("wrong-horse"))
	})
}

func TestUser_Location(t *testing.T) {
	t.Run("Success: Resolves the stored zone", func(t *testing.T) {
		u, err := domain.NewUser("u1", "alice@example.com", "Europe/Rome")
		require.NoError(t, err)

		assert.Equal(t, "Europe/Rome", u.Location().String())
	})

	t.Run("Success: Corrupt zone falls back to UTC", func(t *testing.T) {
		u := &domain.User{Timezone: "garbage"}
		assert.Equal(t, time.UTC, u.Location())
	})
}
