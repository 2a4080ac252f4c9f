package auth

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash format: %s", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password should verify")
	}

	ok, _ = VerifyPassword(hash, "wrong password")
	if ok {
		t.Error("wrong password should not verify")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("empty password should error")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-hash", "anything")
	if err != nil {
		t.Fatalf("malformed hash should not error: %v", err)
	}
	if ok {
		t.Error("malformed hash should not verify")
	}
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	key := hex.EncodeToString(make([]byte, 32))
	svc, err := NewTokenService(key, 15*time.Minute, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	user := &domain.User{
		Syncable:    domain.Syncable{ID: "user-token"},
		ExternalUID: "uid-token",
		Email:       "token@example.com",
	}

	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if !strings.HasPrefix(token, "v4.local.") {
		t.Errorf("expected v4.local token, got %s", token[:20])
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != "user-token" {
		t.Errorf("UserID claim: got %q", claims.UserID)
	}
	if claims.ExternalUID != "uid-token" {
		t.Errorf("ExternalUID claim: got %q", claims.ExternalUID)
	}
	if claims.Email != "token@example.com" {
		t.Errorf("Email claim: got %q", claims.Email)
	}
	if !claims.IsFresh(time.Minute) {
		t.Error("just-issued token should be fresh")
	}
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t)
	if _, err := svc.VerifyAccessToken("v4.local.garbage"); err == nil {
		t.Error("garbage token should not verify")
	}
}

func TestVerifyAccessTokenRejectsWrongKey(t *testing.T) {
	svc := newTestTokenService(t)

	otherKey := strings.Repeat("ab", 32)
	other, err := NewTokenService(otherKey, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	user := &domain.User{Syncable: domain.Syncable{ID: "user-x"}}
	token, err := other.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := svc.VerifyAccessToken(token); err == nil {
		t.Error("token encrypted under another key should not verify")
	}
}

func TestNewTokenServiceRejectsShortKey(t *testing.T) {
	if _, err := NewTokenService("deadbeef", time.Minute, time.Hour); err == nil {
		t.Error("short key should be rejected")
	}
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	h1 := HashRefreshToken(token)
	h2 := HashRefreshToken(token)
	if h1 != h2 {
		t.Error("hashing the same token twice should match")
	}

	other, _ := svc.GenerateRefreshToken()
	if HashRefreshToken(other) == h1 {
		t.Error("distinct tokens should hash differently")
	}
}

func TestLoadOrGenerateKeyPersists(t *testing.T) {
	dir := t.TempDir()

	k1, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey: %v", err)
	}
	if len(k1) != 32 {
		t.Fatalf("key length: got %d, want 32", len(k1))
	}

	k2, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey reload: %v", err)
	}
	if hex.EncodeToString(k1) != hex.EncodeToString(k2) {
		t.Error("reloading should return the same key")
	}
}
