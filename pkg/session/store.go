package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

const sessionIDBytes = 32

type backend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	SessionKey(sessionID, field string) string
}

// Store keeps per-session string values with a sliding TTL.
type Store struct {
	backend backend
	ttl     time.Duration
}

// NewStore constructs a session store over the redis client (or the in-memory backend).
func NewStore(b backend, ttl time.Duration) (*Store, error) {
	if b == nil {
		return nil, fmt.Errorf("session backend is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Store{backend: b, ttl: ttl}, nil
}

// Get returns the value stored under key for the session. ok is false when the
// session holds no such value. Reads refresh the key's TTL.
func (s *Store) Get(ctx context.Context, sessionID, key string) (value string, ok bool, err error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", false, fmt.Errorf("session id is required")
	}
	k := s.backend.SessionKey(sessionID, key)
	value, err = s.backend.Get(ctx, k)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	if err := s.backend.Expire(ctx, k, s.ttl); err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key for the session.
func (s *Store) Set(ctx context.Context, sessionID, key, value string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return s.backend.Set(ctx, s.backend.SessionKey(sessionID, key), value, s.ttl)
}

// Values binds the store to one session.
func (s *Store) Values(sessionID string) *Values {
	return &Values{store: s, id: sessionID}
}

// TTL is the lifetime applied to session values and cookies.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// NewSessionID produces an unguessable browser session identifier.
func NewSessionID() (string, error) {
	bytes := make([]byte, sessionIDBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// Fingerprint shortens a session id for log correlation.
func Fingerprint(sessionID string) string {
	if len(sessionID) <= 8 {
		return sessionID
	}
	return sessionID[:8]
}
