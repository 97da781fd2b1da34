package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moufette/console/internal/domain"
)

const testKey = "01234567890123456789012345678901"

func TestNewTargetCrypto(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid 32 byte key", testKey, false},
		{"too short", "short", true},
		{"too long", "this-key-is-way-too-long-for-aes-256", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crypto, err := domain.NewTargetCrypto(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidKeyLength)
				assert.Nil(t, crypto)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, crypto)
			}
		})
	}
}

func TestTargetCrypto_SealOpen(t *testing.T) {
	crypto, err := domain.NewTargetCrypto(testKey)
	require.NoError(t, err)

	in := &domain.Integration{ID: uuid.New(), Target: "https://hooks.slack.com/services/T0/B0/secret"}
	require.NoError(t, crypto.Seal(in))
	assert.NotEmpty(t, in.TargetNonce)
	assert.NotEqual(t, []byte(in.Target), in.TargetCipher)

	out := &domain.Integration{ID: in.ID, TargetCipher: in.TargetCipher, TargetNonce: in.TargetNonce}
	require.NoError(t, crypto.Open(out))
	assert.Equal(t, in.Target, out.Target)
}

func TestTargetCrypto_BoundToIntegrationID(t *testing.T) {
	crypto, err := domain.NewTargetCrypto(testKey)
	require.NoError(t, err)

	in := &domain.Integration{ID: uuid.New(), Target: "https://example.com/hook"}
	require.NoError(t, crypto.Seal(in))

	moved := &domain.Integration{ID: uuid.New(), TargetCipher: in.TargetCipher, TargetNonce: in.TargetNonce}
	assert.ErrorIs(t, crypto.Open(moved), domain.ErrDecryptionFailed)
}

func TestTargetCrypto_DifferentKeys(t *testing.T) {
	c1, err := domain.NewTargetCrypto(testKey)
	require.NoError(t, err)
	c2, err := domain.NewTargetCrypto("98765432109876543210987654321098")
	require.NoError(t, err)

	in := &domain.Integration{ID: uuid.New(), Target: "https://example.com/hook"}
	require.NoError(t, c1.Seal(in))
	assert.Error(t, c2.Open(in))
}
