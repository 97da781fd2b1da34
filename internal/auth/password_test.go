package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moufette/console/internal/auth"
	"github.com/moufette/console/internal/domain"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, auth.CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, auth.CheckPassword(hash, "battery staple"), domain.ErrWrongPassword)
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := auth.HashPassword("short")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := auth.HashPassword(strings.Repeat("a", domain.MaxPasswordLength+1))
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)

	_, err = auth.HashPassword(strings.Repeat("a", domain.MaxPasswordLength))
	assert.NoError(t, err)
}

const resetSecret = "reset-secret-reset-secret-reset-"

func TestResetTokens_RoundTrip(t *testing.T) {
	tokens := auth.NewResetTokens(resetSecret, time.Hour)
	u := testUser()

	token, err := tokens.Issue(u)
	require.NoError(t, err)

	id, err := tokens.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	assert.NoError(t, tokens.Verify(token, u))
}

func TestResetTokens_InvalidAfterPasswordChange(t *testing.T) {
	tokens := auth.NewResetTokens(resetSecret, time.Hour)
	u := testUser()

	token, err := tokens.Issue(u)
	require.NoError(t, err)

	u.PasswordHash = "$2a$10$changed"
	assert.ErrorIs(t, tokens.Verify(token, u), domain.ErrInvalidResetToken)
}

func TestResetTokens_Expired(t *testing.T) {
	tokens := auth.NewResetTokens(resetSecret, -time.Minute)
	u := testUser()

	token, err := tokens.Issue(u)
	require.NoError(t, err)
	assert.ErrorIs(t, tokens.Verify(token, u), domain.ErrInvalidResetToken)
}

func TestResetTokens_OtherUser(t *testing.T) {
	tokens := auth.NewResetTokens(resetSecret, time.Hour)
	u := testUser()
	other := testUser()
	other.PasswordHash = u.PasswordHash

	token, err := tokens.Issue(u)
	require.NoError(t, err)
	assert.ErrorIs(t, tokens.Verify(token, other), domain.ErrInvalidResetToken)
}

func TestResetTokens_Garbage(t *testing.T) {
	tokens := auth.NewResetTokens(resetSecret, time.Hour)

	_, err := tokens.Subject("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
}
