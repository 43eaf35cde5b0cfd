// Package secretary seals and opens the session cookie payload.
package secretary

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Secretary holds an AES-GCM cipher derived from the configured
// session secret. The same secret always yields the same cipher, so
// cookies survive restarts.
type Secretary struct {
	aesgcm cipher.AEAD
	nonce  []byte
}

// New derives the cipher from the session secret.
func New(secret string) (*Secretary, error) {
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("secretary: init cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secretary: init gcm: %w", err)
	}
	return &Secretary{
		aesgcm: aesgcm,
		nonce:  key[len(key)-aesgcm.NonceSize():],
	}, nil
}

// Seal ciphers a cookie payload.
func (s *Secretary) Seal(data string) string {
	sealed := s.aesgcm.Seal(nil, s.nonce, []byte(data), nil)
	return hex.EncodeToString(sealed)
}

// Open deciphers a cookie payload. A tampered or foreign value fails
// authentication and returns an error.
func (s *Secretary) Open(msg string) (string, error) {
	raw, err := hex.DecodeString(msg)
	if err != nil {
		return "", fmt.Errorf("secretary: decode: %w", err)
	}
	opened, err := s.aesgcm.Open(nil, s.nonce, raw, nil)
	if err != nil {
		return "", fmt.Errorf("secretary: open: %w", err)
	}
	return string(opened), nil
}
