package domain

import "time"

// User represents an authenticated account in the system.
// ExternalUID is the stable identity-provider id the mobile client logs in
// with; it is the join key for everything the client syncs.
type User struct {
	Syncable
	ExternalUID  string    `json:"external_uid"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string    `json:"display_name"`
	AvatarPath   string    `json:"avatar_path,omitempty"` // Normalized avatar photo used by the dress-up pipeline
	LastLoginAt  time.Time `json:"last_login_at"`
}

// HasAvatar returns true if the user has uploaded an avatar photo.
func (u *User) HasAvatar() bool {
	return u.AvatarPath != ""
}

// Session is a refresh-token session for a user.
// The token itself is stored hashed; only the client holds the raw value.
type Session struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TokenHash  string     `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	LastUsedAt time.Time  `json:"last_used_at"`
	ClientName string     `json:"client_name,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// IsExpired returns true if the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsRevoked returns true if the session was explicitly revoked.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}
