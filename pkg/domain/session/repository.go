package session

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found")

type Repository interface {
	Save(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
