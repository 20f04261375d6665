package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrTokenExpired is returned by Open for tokens past their expiry.
var ErrTokenExpired = errors.New("token expired")

// TokenSealer issues tamper-proof, time-limited tokens using AES-GCM.
// Used for attachment download links: the sealed payload stands in for a
// signed URL, carrying the storage key and an expiry.
type TokenSealer struct {
	key []byte
}

// NewTokenSealer creates a sealer with the given key.
// Key must be 16, 24, or 32 bytes for AES-128, AES-192, or AES-256.
func NewTokenSealer(key []byte) (*TokenSealer, error) {
	keyLen := len(key)
	if keyLen != 16 && keyLen != 24 && keyLen != 32 {
		return nil, fmt.Errorf("invalid key length: %d (must be 16, 24, or 32)", keyLen)
	}
	return &TokenSealer{key: key}, nil
}

// GenerateKey generates a new random sealing key
func GenerateKey() ([]byte, error) {
	key := make([]byte, 32) // AES-256
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

type sealedEnvelope struct {
	Payload   json.RawMessage `json:"p"`
	ExpiresAt time.Time       `json:"exp"`
}

// Seal encrypts the payload with an expiry and returns a URL-safe token.
func (s *TokenSealer) Seal(payload any, ttl time.Duration) (string, time.Time, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	expiresAt := time.Now().Add(ttl)
	plaintext, err := json.Marshal(sealedEnvelope{Payload: raw, ExpiresAt: expiresAt})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), expiresAt, nil
}

// Open decrypts a token into the payload, rejecting expired or tampered
// tokens.
func (s *TokenSealer) Open(token string, payload any) error {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return fmt.Errorf("failed to decode token: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create GCM: %w", err)
	}

	if len(sealed) < gcm.NonceSize() {
		return errors.New("token too short")
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("failed to open token: %w", err)
	}

	var env sealedEnvelope
	if err := json.Unmarshal(plaintext, &env); err != nil {
		return fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if time.Now().After(env.ExpiresAt) {
		return ErrTokenExpired
	}

	return json.Unmarshal(env.Payload, payload)
}
