package conversation_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/app/conversation"
	"github.com/NeuralTrust/BarButler/pkg/app/conversation/mocks"
	"github.com/NeuralTrust/BarButler/pkg/app/matching"
	"github.com/NeuralTrust/BarButler/pkg/app/recommendation"
	recMocks "github.com/NeuralTrust/BarButler/pkg/app/recommendation/mocks"
	"github.com/NeuralTrust/BarButler/pkg/domain/movie"
	"github.com/NeuralTrust/BarButler/pkg/domain/session"
	"github.com/NeuralTrust/BarButler/pkg/domain/whiskey"
	"github.com/NeuralTrust/BarButler/pkg/infra/cache"
	"github.com/NeuralTrust/BarButler/pkg/infra/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	sessions  session.Repository
	service   *recMocks.MockService
	sentiment *mocks.MockAffirmationResolver
	engine    conversation.Engine
}

func newFixture() *fixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &fixture{
		sessions:  repository.NewMemorySessionRepository(cache.NewTTLMap[session.Session](time.Hour)),
		service:   new(recMocks.MockService),
		sentiment: new(mocks.MockAffirmationResolver),
	}
	n := 0
	f.engine = conversation.NewEngine(f.sessions, f.service, f.sentiment, logger,
		conversation.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("session-%d", n)
		}))
	return f
}

func (f *fixture) seed(t *testing.T, state, previous session.State) string {
	t.Helper()
	s := session.NewSession("seeded")
	s.State = state
	s.PreviousTopic = previous
	require.NoError(t, f.sessions.Save(context.Background(), s))
	return s.ID
}

var bowmore = &whiskey.Whiskey{Title: "Bowmore 12", Description: "Honey and peat", Price: "55"}

func TestStart_GreetsAndMovesToChoosing(t *testing.T) {
	f := newFixture()

	r, err := f.engine.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "session-1", r.SessionID)
	assert.Equal(t, "CHOOSING", r.State)
	require.Len(t, r.Replies, 1)
	assert.True(t, strings.HasPrefix(r.Replies[0], "Welcome, my name is BarButler"))
}

func TestHandle_StartStateGreets(t *testing.T) {
	f := newFixture()
	id := f.seed(t, session.StateStart, session.StateMovie)

	r, err := f.engine.Handle(context.Background(), id, "hi again")
	require.NoError(t, err)
	assert.Equal(t, "CHOOSING", r.State)
}

func TestHandle_Choosing(t *testing.T) {
	tests := []struct {
		text  string
		state string
	}{
		{"I want to pick by MOVIE", "MOVIE"},
		{"tasting notes please", "TASTE"},
		{"surprise me", "CHOOSING"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			f := newFixture()
			id := f.seed(t, session.StateChoosing, session.StateStart)

			r, err := f.engine.Handle(context.Background(), id, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.state, r.State)

			stored, err := f.sessions.GetByID(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, tt.state, stored.State.String())
		})
	}
}

func TestHandle_MovieRecommended(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.seed(t, session.StateMovie, session.StateMovie)

	f.service.On("FromMovie", mock.Anything, id, "pairing for Jaws?").Return(&recommendation.Result{
		Outcome: recommendation.OutcomeRecommended,
		Title:   "Jaws",
		Movie:   &movie.Movie{OriginalTitle: "Jaws"},
		Emotion: "fear",
		Tags:    []string{"smoky", "bold"},
		Whiskey: bowmore,
	}, nil)

	r, err := f.engine.Handle(ctx, id, "pairing for Jaws?")
	require.NoError(t, err)
	assert.Equal(t, "FOLLOWUP", r.State)
	require.Len(t, r.Replies, 4)
	assert.Equal(t, "I sense fear from this movie. I'll try to find you a whiskey that is smoky, bold", r.Replies[1])
	assert.Contains(t, r.Replies[2], "Bowmore 12 to sip while watching Jaws")
	assert.Contains(t, r.Replies[2], "$55")
	assert.Equal(t, "Would you like another recommendation?", r.Replies[3])
}

func TestHandle_MovieRetryOutcomesStay(t *testing.T) {
	results := []*recommendation.Result{
		{Outcome: recommendation.OutcomeNoTitle},
		{Outcome: recommendation.OutcomeMovieNotFound, Title: "Zzz"},
		{Outcome: recommendation.OutcomeUnknownEmotion, Title: "X", Movie: &movie.Movie{OriginalTitle: "X"}},
	}
	for _, res := range results {
		t.Run(res.Outcome.String(), func(t *testing.T) {
			f := newFixture()
			id := f.seed(t, session.StateMovie, session.StateMovie)
			f.service.On("FromMovie", mock.Anything, id, "text").Return(res, nil)

			r, err := f.engine.Handle(context.Background(), id, "text")
			require.NoError(t, err)
			assert.Equal(t, "MOVIE", r.State)
			assert.Len(t, r.Replies, 1)
		})
	}
}

func TestHandle_NoWhiskeyReturnsToStart(t *testing.T) {
	f := newFixture()
	id := f.seed(t, session.StateTaste, session.StateTaste)
	f.service.On("FromTaste", mock.Anything, id, "fizzy").Return(&recommendation.Result{
		Outcome: recommendation.OutcomeNoWhiskey,
		Notes:   []string{"fizzy"},
		Tags:    []string{},
	}, nil)

	r, err := f.engine.Handle(context.Background(), id, "fizzy")
	require.NoError(t, err)
	assert.Equal(t, "START", r.State)
	assert.Equal(t, "Sorry, there were no whiskies with the flavors you were looking for", r.Replies[len(r.Replies)-1])
}

func TestHandle_TasteNoNotesStays(t *testing.T) {
	f := newFixture()
	id := f.seed(t, session.StateTaste, session.StateTaste)
	f.service.On("FromTaste", mock.Anything, id, "hmm").Return(&recommendation.Result{Outcome: recommendation.OutcomeNoNotes}, nil)

	r, err := f.engine.Handle(context.Background(), id, "hmm")
	require.NoError(t, err)
	assert.Equal(t, "TASTE", r.State)
}

func TestHandle_Followup(t *testing.T) {
	tests := []struct {
		name     string
		previous session.State
		yes      bool
		state    string
	}{
		{"again taste", session.StateTaste, true, "TASTE"},
		{"again movie", session.StateMovie, true, "MOVIE"},
		{"no thanks", session.StateMovie, false, "START"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			id := f.seed(t, session.StateFollowup, tt.previous)
			f.sentiment.On("IsAffirmative", mock.Anything, "answer").Return(tt.yes, nil)

			r, err := f.engine.Handle(context.Background(), id, "answer")
			require.NoError(t, err)
			assert.Equal(t, tt.state, r.State)
		})
	}
}

func TestHandle_MatchingUnavailableRepromptsInPlace(t *testing.T) {
	f := newFixture()
	id := f.seed(t, session.StateFollowup, session.StateTaste)
	f.sentiment.On("IsAffirmative", mock.Anything, "sure").
		Return(false, fmt.Errorf("%w: embed anchors: boom", matching.ErrMatchingUnavailable))

	r, err := f.engine.Handle(context.Background(), id, "sure")
	require.NoError(t, err)
	assert.Equal(t, "FOLLOWUP", r.State)
	assert.Contains(t, r.Replies[0], "try that again")
}

func TestHandle_ExternalErrorPropagates(t *testing.T) {
	f := newFixture()
	id := f.seed(t, session.StateMovie, session.StateMovie)
	upstream := errors.New("tmdb: upstream returned non-2xx status: 500")
	f.service.On("FromMovie", mock.Anything, id, "Jaws").Return(nil, upstream)

	_, err := f.engine.Handle(context.Background(), id, "Jaws")
	assert.ErrorIs(t, err, upstream)

	stored, err := f.sessions.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, session.StateMovie, stored.State)
}

func TestHandle_DoneEndsSession(t *testing.T) {
	f := newFixture()
	id := f.seed(t, session.StateTaste, session.StateTaste)

	r, err := f.engine.Handle(context.Background(), id, "Done")
	require.NoError(t, err)
	assert.True(t, r.Ended)

	_, err = f.engine.Handle(context.Background(), id, "hello")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestHandle_DoneIsExact(t *testing.T) {
	f := newFixture()
	id := f.seed(t, session.StateChoosing, session.StateStart)

	r, err := f.engine.Handle(context.Background(), id, "done")
	require.NoError(t, err)
	assert.False(t, r.Ended)
	assert.Equal(t, "CHOOSING", r.State)
}

func TestEnd(t *testing.T) {
	f := newFixture()
	r, err := f.engine.Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.engine.End(context.Background(), r.SessionID))
	assert.ErrorIs(t, f.engine.End(context.Background(), r.SessionID), session.ErrSessionNotFound)
}
