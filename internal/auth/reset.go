package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/moufette/console/internal/domain"
)

const resetAudience = "password-reset"

// ResetTokens issues and verifies password reset tokens.
//
// Tokens are HS256 JWTs whose subject is the user ID. The signing key mixes in
// the user's current password hash, so a token stops verifying as soon as the
// password it was issued to reset has changed.
type ResetTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewResetTokens creates a token issuer.
func NewResetTokens(secret string, ttl time.Duration) *ResetTokens {
	return &ResetTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *ResetTokens) key(u *domain.User) []byte {
	return append(append([]byte{}, t.secret...), u.PasswordHash...)
}

// Issue returns a signed reset token for u.
func (t *ResetTokens) Issue(u *domain.User) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID.String(),
		Audience:  jwt.ClaimStrings{resetAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key(u))
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

// Subject extracts the user ID from a token without verifying it, so the
// caller can load the user whose hash is part of the verification key.
func (t *ResetTokens) Subject(token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return uuid.Nil, domain.ErrInvalidResetToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidResetToken
	}
	return id, nil
}

// Verify checks the token signature, expiry and audience against u.
func (t *ResetTokens) Verify(token string, u *domain.User) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(resetAudience),
		jwt.WithSubject(u.ID.String()),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	_, err := parser.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return t.key(u), nil
	})
	if err != nil {
		return domain.ErrInvalidResetToken
	}
	return nil
}
