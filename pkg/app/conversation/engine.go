package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NeuralTrust/BarButler/pkg/app/matching"
	"github.com/NeuralTrust/BarButler/pkg/app/recommendation"
	"github.com/NeuralTrust/BarButler/pkg/domain/session"
	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=AffirmationResolver --dir=. --output=./mocks --filename=affirmation_resolver_mock.go --case=underscore

type AffirmationResolver interface {
	IsAffirmative(ctx context.Context, text string) (bool, error)
}

// Reply is what one turn produces. Ended is set once the user said Done and
// the session no longer exists.
type Reply struct {
	SessionID string   `json:"session_id"`
	State     string   `json:"state"`
	Replies   []string `json:"replies"`
	Ended     bool     `json:"ended,omitempty"`
}

//go:generate mockery --name=Engine --dir=. --output=./mocks --filename=engine_mock.go --case=underscore

type Engine interface {
	Start(ctx context.Context) (*Reply, error)
	Handle(ctx context.Context, sessionID, text string) (*Reply, error)
	End(ctx context.Context, sessionID string) error
}

type EngineOption func(*engine)

func WithIDGenerator(next func() string) EngineOption {
	return func(e *engine) { e.newID = next }
}

type engine struct {
	sessions    session.Repository
	recommender recommendation.Service
	sentiment   AffirmationResolver
	logger      *logrus.Logger
	newID       func() string
}

func NewEngine(
	sessions session.Repository,
	recommender recommendation.Service,
	sentiment AffirmationResolver,
	logger *logrus.Logger,
	opts ...EngineOption,
) Engine {
	e := &engine{
		sessions:    sessions,
		recommender: recommender,
		sentiment:   sentiment,
		logger:      logger,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start opens a session and greets the user, leaving it in CHOOSING.
func (e *engine) Start(ctx context.Context) (*Reply, error) {
	s := session.NewSession(e.newID())
	replies := e.greet(s)
	if err := e.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return reply(s, replies), nil
}

func (e *engine) Handle(ctx context.Context, sessionID, text string) (*Reply, error) {
	s, err := e.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	prometheus.ConversationTurnsTotal.WithLabelValues(s.State.String()).Inc()

	if strings.TrimSpace(text) == DoneCommand {
		if err := e.sessions.Delete(ctx, s.ID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
			return nil, fmt.Errorf("end session: %w", err)
		}
		r := reply(s, []string{doneText})
		r.Ended = true
		return r, nil
	}

	before := s.State
	var replies []string
	switch s.State {
	case session.StateStart:
		replies = e.greet(s)
	case session.StateChoosing:
		replies = e.choose(s, text)
	case session.StateMovie:
		replies, err = e.fromMovie(ctx, s, text)
	case session.StateTaste:
		replies, err = e.fromTaste(ctx, s, text)
	case session.StateFollowup:
		replies, err = e.followup(ctx, s, text)
	default:
		e.logger.WithField("state", int(s.State)).Warn("session in unknown state, restarting")
		replies = e.greet(s)
	}

	if errors.Is(err, matching.ErrMatchingUnavailable) {
		e.logger.WithError(err).WithField("session_id", s.ID).Warn("semantic matching unavailable")
		return reply(s, []string{unavailableText}), nil
	}
	if err != nil {
		return nil, err
	}

	if err := e.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	e.logger.WithFields(logrus.Fields{
		"session_id": s.ID,
		"from":       before.String(),
		"to":         s.State.String(),
	}).Debug("conversation turn")
	return reply(s, replies), nil
}

func (e *engine) End(ctx context.Context, sessionID string) error {
	return e.sessions.Delete(ctx, sessionID)
}

func (e *engine) greet(s *session.Session) []string {
	s.Transition(session.StateChoosing)
	return []string{greetingText}
}

func (e *engine) choose(s *session.Session, text string) []string {
	lowered := strings.ToLower(text)
	switch {
	case strings.Contains(lowered, "movie"):
		s.Transition(session.StateMovie)
		return []string{askMovieText}
	case strings.Contains(lowered, "tasting notes"):
		s.Transition(session.StateTaste)
		return []string{askTasteText}
	default:
		return []string{notUnderstoodText}
	}
}

func (e *engine) fromMovie(ctx context.Context, s *session.Session, text string) ([]string, error) {
	s.PreviousTopic = session.StateMovie
	res, err := e.recommender.FromMovie(ctx, s.ID, text)
	if err != nil {
		return nil, err
	}

	switch res.Outcome {
	case recommendation.OutcomeNoTitle:
		return []string{noTitleText}, nil
	case recommendation.OutcomeMovieNotFound:
		return []string{fmt.Sprintf(movieNotFoundFormat, res.Title)}, nil
	case recommendation.OutcomeUnknownEmotion:
		return []string{fmt.Sprintf(unknownMoodFormat, res.Movie.OriginalTitle)}, nil
	}

	replies := []string{
		fmt.Sprintf(greatMovieFormat, res.Movie.OriginalTitle),
		fmt.Sprintf(senseFormat, res.Emotion, tagList(res.Tags)),
	}
	if res.Outcome == recommendation.OutcomeNoWhiskey {
		s.Transition(session.StateStart)
		return append(replies, fmt.Sprintf(noMovieWhiskeyFmt, res.Title)), nil
	}
	s.Transition(session.StateFollowup)
	return append(replies, movieRecommendation(res.Whiskey, res.Title), anotherText), nil
}

func (e *engine) fromTaste(ctx context.Context, s *session.Session, text string) ([]string, error) {
	s.PreviousTopic = session.StateTaste
	res, err := e.recommender.FromTaste(ctx, s.ID, text)
	if err != nil {
		return nil, err
	}

	if res.Outcome == recommendation.OutcomeNoNotes {
		return []string{noNotesText}, nil
	}

	replies := []string{fmt.Sprintf(lookingForFormat, tagList(res.Tags))}
	if res.Outcome == recommendation.OutcomeNoWhiskey {
		s.Transition(session.StateStart)
		return append(replies, noTasteWhiskey), nil
	}
	s.Transition(session.StateFollowup)
	return append(replies, tasteRecommendation(res.Whiskey), anotherText), nil
}

func (e *engine) followup(ctx context.Context, s *session.Session, text string) ([]string, error) {
	yes, err := e.sentiment.IsAffirmative(ctx, text)
	if err != nil {
		return nil, err
	}
	switch {
	case yes && s.PreviousTopic == session.StateTaste:
		s.Transition(session.StateTaste)
		return []string{anotherTasteText}, nil
	case yes && s.PreviousTopic == session.StateMovie:
		s.Transition(session.StateMovie)
		return []string{anotherMovieText}, nil
	default:
		s.Transition(session.StateStart)
		return []string{goodbyeText}, nil
	}
}

func reply(s *session.Session, replies []string) *Reply {
	return &Reply{SessionID: s.ID, State: s.State.String(), Replies: replies}
}
