package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

func makeTestSession(id, userID, tokenHash string) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:         id,
		UserID:     userID,
		TokenHash:  tokenHash,
		CreatedAt:  now,
		ExpiresAt:  now.Add(24 * time.Hour),
		LastUsedAt: now,
		ClientName: "test-client",
	}
}

func TestCreateAndGetSessionByTokenHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-1")

	sess := makeTestSession("sess-1", "user-1", "hash-abc")
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByTokenHash(ctx, "hash-abc")
	if err != nil {
		t.Fatalf("GetSessionByTokenHash: %v", err)
	}
	if got.ID != "sess-1" || got.UserID != "user-1" {
		t.Errorf("session: got %+v", got)
	}
	if got.IsRevoked() {
		t.Error("fresh session should not be revoked")
	}
}

func TestRevokeSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-1")

	sess := makeTestSession("sess-r", "user-1", "hash-r")
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := s.RevokeSession(ctx, "sess-r"); err != nil {
		t.Fatalf("RevokeSession: %v", err)
	}

	got, err := s.GetSession(ctx, "sess-r")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !got.IsRevoked() {
		t.Error("session should be revoked")
	}

	// Revoking twice reports not found (no active row matched).
	if err := s.RevokeSession(ctx, "sess-r"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second revoke should report not found, got %v", err)
	}
}

func TestRevokeAllUserSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-1")

	for i, hash := range []string{"h1", "h2", "h3"} {
		sess := makeTestSession("sess-"+hash, "user-1", hash)
		sess.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession %s: %v", hash, err)
		}
	}

	if err := s.RevokeAllUserSessions(ctx, "user-1"); err != nil {
		t.Fatalf("RevokeAllUserSessions: %v", err)
	}

	sessions, err := s.ListUserSessions(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListUserSessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	for _, sess := range sessions {
		if !sess.IsRevoked() {
			t.Errorf("session %s should be revoked", sess.ID)
		}
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-1")

	live := makeTestSession("sess-live", "user-1", "hash-live")
	if err := s.CreateSession(ctx, live); err != nil {
		t.Fatalf("CreateSession live: %v", err)
	}

	expired := makeTestSession("sess-old", "user-1", "hash-old")
	expired.ExpiresAt = time.Now().Add(-time.Hour)
	if err := s.CreateSession(ctx, expired); err != nil {
		t.Fatalf("CreateSession expired: %v", err)
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted session, got %d", n)
	}

	if _, err := s.GetSession(ctx, "sess-live"); err != nil {
		t.Errorf("live session should survive, got %v", err)
	}
	if _, err := s.GetSession(ctx, "sess-old"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expired session should be gone, got %v", err)
	}
}
