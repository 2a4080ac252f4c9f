// Package service implements the application's business logic on top of the
// store, auth, media, and remote-client packages. Handlers stay thin; every
// operation the API exposes lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/auth"
	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
	"github.com/wardrobeapp/wardrobe-server/internal/id"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// SessionService manages refresh-token sessions: creation, rotation,
// revocation, and periodic cleanup of expired rows.
type SessionService struct {
	store        store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(st store.Store, tokenService *auth.TokenService, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:        st,
		tokenService: tokenService,
		logger:       logger,
	}
}

// SessionResponse carries the token pair handed to the client.
type SessionResponse struct {
	SessionID             string    `json:"session_id"`
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
}

// CreateSession issues a new token pair and persists the session row.
func (s *SessionService) CreateSession(ctx context.Context, user *domain.User, clientName string) (*SessionResponse, error) {
	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:         sessionID,
		UserID:     user.ID,
		TokenHash:  auth.HashRefreshToken(refreshToken),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.tokenService.RefreshTokenDuration()),
		LastUsedAt: now,
		ClientName: clientName,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &SessionResponse{
		SessionID:             sessionID,
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(s.tokenService.AccessTokenDuration()),
		RefreshTokenExpiresAt: session.ExpiresAt,
	}, nil
}

// RefreshSession rotates a refresh token: the presented token's session gets
// a new token hash and expiry, and a fresh access token is issued. The old
// refresh token stops working immediately.
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken string) (*SessionResponse, *domain.User, error) {
	session, err := s.store.GetSessionByTokenHash(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("invalid refresh token")
		}
		return nil, nil, fmt.Errorf("lookup session: %w", err)
	}

	if session.IsRevoked() {
		return nil, nil, domainerrors.Unauthorized("session revoked")
	}
	if session.IsExpired() {
		return nil, nil, domainerrors.ErrTokenExpired
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthorized("user no longer exists")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	newRefreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := time.Now()
	session.TokenHash = auth.HashRefreshToken(newRefreshToken)
	session.ExpiresAt = now.Add(s.tokenService.RefreshTokenDuration())
	session.LastUsedAt = now

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("rotate session: %w", err)
	}

	return &SessionResponse{
		SessionID:             session.ID,
		AccessToken:           accessToken,
		RefreshToken:          newRefreshToken,
		AccessTokenExpiresAt:  now.Add(s.tokenService.AccessTokenDuration()),
		RefreshTokenExpiresAt: session.ExpiresAt,
	}, user, nil
}

// RevokeSession revokes one session (logout).
func (s *SessionService) RevokeSession(ctx context.Context, sessionID string) error {
	if err := s.store.RevokeSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("session not found")
		}
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeAllSessions revokes every session of a user. Called after password
// changes and account deletion.
func (s *SessionService) RevokeAllSessions(ctx context.Context, userID string) error {
	if err := s.store.RevokeAllUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// ListSessions returns a user's sessions, newest first.
func (s *SessionService) ListSessions(ctx context.Context, userID string) ([]*domain.Session, error) {
	return s.store.ListUserSessions(ctx, userID)
}

// CleanupExpired removes expired and revoked sessions. Run periodically.
func (s *SessionService) CleanupExpired(ctx context.Context) error {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("cleaned up expired sessions", "count", n)
	}
	return nil
}
