package domain

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// Crypto errors
var (
	ErrInvalidKeyLength = errors.New("encryption key must be exactly 32 bytes")
	ErrDecryptionFailed = errors.New("decryption failed")
)

// TargetCrypto seals integration target URLs with AES-256-GCM so webhook
// secrets embedded in them are not stored in clear.
type TargetCrypto struct {
	aead cipher.AEAD
}

// NewTargetCrypto creates a TargetCrypto from a 32-byte key.
func NewTargetCrypto(key string) (*TargetCrypto, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &TargetCrypto{aead: aead}, nil
}

// Seal encrypts the plaintext target of in into its cipher fields.
// The integration ID is bound as additional data so ciphertexts cannot be
// swapped between rows.
func (c *TargetCrypto) Seal(in *Integration) error {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	in.TargetNonce = nonce
	in.TargetCipher = c.aead.Seal(nil, nonce, []byte(in.Target), in.ID[:])
	return nil
}

// Open decrypts the cipher fields of in back into Target.
func (c *TargetCrypto) Open(in *Integration) error {
	plaintext, err := c.aead.Open(nil, in.TargetNonce, in.TargetCipher, in.ID[:])
	if err != nil {
		return ErrDecryptionFailed
	}
	in.Target = string(plaintext)
	return nil
}
