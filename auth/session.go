package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/staffdir/staffdir"
)

const sessionKeyPrefix = "staffdir:session:"

// Session is the server-side login record kept alongside the token.
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore keeps sessions in Redis, expiring them with the key TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a session store over the given Redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Create stores a new session for the user and returns it.
func (s *SessionStore) Create(ctx context.Context, userID uint, email, role string) (*Session, error) {
	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, staffdir.NewErrorWithCause(staffdir.ErrorTypeStorage,
			"failed to encode session", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+session.ID, payload, s.ttl).Err(); err != nil {
		return nil, staffdir.NewErrorWithCause(staffdir.ErrorTypeStorage,
			"failed to store session", err)
	}
	return session, nil
}

// Get returns the session or a not-found error when it is absent or
// already expired.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, staffdir.NewError(staffdir.ErrorTypeNotFound, "session not found")
	}
	if err != nil {
		return nil, staffdir.NewErrorWithCause(staffdir.ErrorTypeStorage,
			"failed to load session", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, staffdir.NewErrorWithCause(staffdir.ErrorTypeStorage,
			"failed to decode session", err)
	}
	return session, nil
}

// Revoke removes the session. Revoking an absent session is not an error.
func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeStorage,
			"failed to revoke session", err)
	}
	return nil
}
