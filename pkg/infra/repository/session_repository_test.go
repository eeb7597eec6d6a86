package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/domain/session"
	"github.com/NeuralTrust/BarButler/pkg/infra/cache"
	"github.com/NeuralTrust/BarButler/pkg/infra/repository"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSession() *session.Session {
	at := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	return &session.Session{
		ID:            "5f0c",
		State:         session.StateFollowup,
		PreviousTopic: session.StateMovie,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

func TestRedisSessionRepository_SaveAndGet(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	s := fixedSession()
	payload, err := json.Marshal(s)
	require.NoError(t, err)

	mock.ExpectSet("session:5f0c", string(payload), 30*time.Minute).SetVal("OK")
	mock.ExpectGet("session:5f0c").SetVal(string(payload))

	repo := repository.NewSessionRepository(cache.Wrap(rdb), 30*time.Minute)
	require.NoError(t, repo.Save(context.Background(), s))

	got, err := repo.GetByID(context.Background(), "5f0c")
	require.NoError(t, err)
	assert.Equal(t, session.StateFollowup, got.State)
	assert.Equal(t, session.StateMovie, got.PreviousTopic)
	assert.True(t, s.UpdatedAt.Equal(got.UpdatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepository_NotFound(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("session:gone").RedisNil()
	mock.ExpectDel("session:gone").SetVal(0)

	repo := repository.NewSessionRepository(cache.Wrap(rdb), 0)

	_, err := repo.GetByID(context.Background(), "gone")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), "gone"), session.ErrSessionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepository_RedisError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("session:x").SetErr(errors.New("READONLY"))

	_, err := repository.NewSessionRepository(cache.Wrap(rdb), 0).GetByID(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrSessionNotFound)
}

func TestMemorySessionRepository(t *testing.T) {
	repo := repository.NewMemorySessionRepository(cache.NewTTLMap[session.Session](time.Hour))
	ctx := context.Background()

	s := session.NewSession("abc")
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.GetByID(ctx, "abc")
	require.NoError(t, err)
	got.Transition(session.StateTaste)

	again, err := repo.GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, session.StateStart, again.State, "stored session must not alias returned values")

	require.NoError(t, repo.Delete(ctx, "abc"))
	_, err = repo.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "abc"), session.ErrSessionNotFound)
}
