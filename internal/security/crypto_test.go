package security_test

import (
	"errors"
	"testing"
	"time"

	"github.com/kioskcare/helpdesk/internal/security"
)

type testClaim struct {
	AttachmentID string `json:"attachment_id"`
	StorageKey   string `json:"storage_key"`
}

func newSealer(t *testing.T) *security.TokenSealer {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	sealer, err := security.NewTokenSealer(key)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}
	return sealer
}

func TestTokenSealer_RoundTrip(t *testing.T) {
	sealer := newSealer(t)

	claim := testClaim{AttachmentID: "att-1", StorageKey: "ws/tk/blob.pdf"}
	token, expiresAt, err := sealer.Seal(claim, time.Hour)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expiry should be in the future")
	}

	var opened testClaim
	if err := sealer.Open(token, &opened); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if opened != claim {
		t.Errorf("payload does not match: got %+v, want %+v", opened, claim)
	}
}

func TestTokenSealer_Expired(t *testing.T) {
	sealer := newSealer(t)

	token, _, err := sealer.Seal(testClaim{AttachmentID: "att-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	var opened testClaim
	err = sealer.Open(token, &opened)
	if !errors.Is(err, security.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenSealer_Tampered(t *testing.T) {
	sealer := newSealer(t)

	token, _, err := sealer.Seal(testClaim{AttachmentID: "att-1"}, time.Hour)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	tampered := []byte(token)
	tampered[len(tampered)-1] ^= 'x'

	var opened testClaim
	if err := sealer.Open(string(tampered), &opened); err == nil {
		t.Error("expected error for tampered token")
	}
}

func TestTokenSealer_WrongKey(t *testing.T) {
	sealer := newSealer(t)

	otherKey := make([]byte, 32)
	for i := range otherKey {
		otherKey[i] = byte(i + 1)
	}
	other, err := security.NewTokenSealer(otherKey)
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}

	token, _, err := sealer.Seal(testClaim{AttachmentID: "att-1"}, time.Hour)
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}

	var opened testClaim
	if err := other.Open(token, &opened); err == nil {
		t.Error("expected error when opening with a different key")
	}
}

func TestNewTokenSealer_InvalidKeyLength(t *testing.T) {
	if _, err := security.NewTokenSealer(make([]byte, 20)); err == nil {
		t.Error("expected error for invalid key length")
	}
}

func TestGenerateKey(t *testing.T) {
	key, err := security.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	if len(key) != 32 {
		t.Errorf("expected 32-byte key, got %d", len(key))
	}
}
