package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/domain/session"
	"github.com/NeuralTrust/BarButler/pkg/infra/cache"
)

const DefaultSessionTTL = time.Hour

type SessionRepository struct {
	cache cache.Client
	ttl   time.Duration
}

// NewSessionRepository stores sessions in redis; every save refreshes the TTL.
func NewSessionRepository(c cache.Client, ttl time.Duration) session.Repository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionRepository{cache: c, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, s *session.Session) error {
	sessionJSON, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.cache.Set(ctx, fmt.Sprintf(cache.SessionKeyPattern, s.ID), string(sessionJSON), r.ttl)
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (*session.Session, error) {
	sessionJSON, err := r.cache.Get(ctx, fmt.Sprintf(cache.SessionKeyPattern, sessionID))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal([]byte(sessionJSON), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	existed, err := r.cache.Delete(ctx, fmt.Sprintf(cache.SessionKeyPattern, sessionID))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if !existed {
		return session.ErrSessionNotFound
	}
	return nil
}
