package repository

import (
	"context"

	"github.com/NeuralTrust/BarButler/pkg/domain/session"
	"github.com/NeuralTrust/BarButler/pkg/infra/cache"
)

type memorySessionRepository struct {
	sessions *cache.TTLMap[session.Session]
}

// NewMemorySessionRepository keeps sessions in process. Values are copied in
// and out so callers never share a *Session.
func NewMemorySessionRepository(sessions *cache.TTLMap[session.Session]) session.Repository {
	return &memorySessionRepository{sessions: sessions}
}

func (r *memorySessionRepository) Save(_ context.Context, s *session.Session) error {
	r.sessions.Set(s.ID, *s)
	return nil
}

func (r *memorySessionRepository) GetByID(_ context.Context, sessionID string) (*session.Session, error) {
	s, ok := r.sessions.Get(sessionID)
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return &s, nil
}

func (r *memorySessionRepository) Delete(_ context.Context, sessionID string) error {
	if !r.sessions.Delete(sessionID) {
		return session.ErrSessionNotFound
	}
	return nil
}
