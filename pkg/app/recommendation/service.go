package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/app/extraction"
	"github.com/NeuralTrust/BarButler/pkg/app/matching"
	"github.com/NeuralTrust/BarButler/pkg/domain/movie"
	"github.com/NeuralTrust/BarButler/pkg/domain/telemetry"
	"github.com/NeuralTrust/BarButler/pkg/domain/whiskey"
	"github.com/NeuralTrust/BarButler/pkg/infra/metrics"
	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

type Outcome int

const (
	OutcomeRecommended Outcome = iota
	OutcomeNoTitle
	OutcomeMovieNotFound
	OutcomeUnknownEmotion
	OutcomeNoNotes
	OutcomeNoWhiskey
)

var outcomeNames = map[Outcome]string{
	OutcomeRecommended:    "recommended",
	OutcomeNoTitle:        "no_title",
	OutcomeMovieNotFound:  "movie_not_found",
	OutcomeUnknownEmotion: "unknown_emotion",
	OutcomeNoNotes:        "no_notes",
	OutcomeNoWhiskey:      "no_whiskey",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

type Profiles struct {
	Movie matching.Profile `mapstructure:"movie"`
	Taste matching.Profile `mapstructure:"taste"`
}

var DefaultProfiles = Profiles{
	Movie: matching.Profile{Threshold: 0.3, TopK: 5},
	Taste: matching.Profile{Threshold: 0.5, TopK: 1},
}

// Result describes how far a flow got. Fields after Outcome are filled as the
// flow progresses, so a NoWhiskey result still carries the tags it tried.
type Result struct {
	Outcome Outcome
	Source  telemetry.Source
	Title   string
	Movie   *movie.Movie
	Emotion string
	Notes   []string
	Tags    []string
	Whiskey *whiskey.Whiskey
}

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=service_mock.go --case=underscore

type Service interface {
	FromMovie(ctx context.Context, sessionID, text string) (*Result, error)
	FromTaste(ctx context.Context, sessionID, text string) (*Result, error)
}

type service struct {
	extractor   extraction.Extractor
	resolver    *matching.Resolver
	finder      movie.Finder
	recommender whiskey.Recommender
	worker      metrics.Worker
	profiles    Profiles
	logger      *logrus.Logger
}

func NewService(
	extractor extraction.Extractor,
	resolver *matching.Resolver,
	finder movie.Finder,
	recommender whiskey.Recommender,
	worker metrics.Worker,
	profiles Profiles,
	logger *logrus.Logger,
) Service {
	return &service{
		extractor:   extractor,
		resolver:    resolver,
		finder:      finder,
		recommender: recommender,
		worker:      worker,
		profiles:    profiles,
		logger:      logger,
	}
}

func (s *service) FromMovie(ctx context.Context, sessionID, text string) (*Result, error) {
	res := &Result{Source: telemetry.SourceMovie}

	title, err := s.extractor.MovieTitle(ctx, text)
	if err != nil {
		return s.fail(res, err)
	}
	res.Title = title
	if title == "" {
		return s.finish(res, OutcomeNoTitle), nil
	}

	found, err := s.finder.Search(ctx, title)
	if errors.Is(err, movie.ErrMovieNotFound) {
		return s.finish(res, OutcomeMovieNotFound), nil
	}
	if err != nil {
		return s.fail(res, err)
	}
	res.Movie = found

	emotion, err := s.extractor.Emotion(ctx, found.Overview)
	if errors.Is(err, extraction.ErrUnknownEmotion) {
		return s.finish(res, OutcomeUnknownEmotion), nil
	}
	if err != nil {
		return s.fail(res, err)
	}
	res.Emotion = emotion

	// Heuristic bridge: the emotion label is embedded with the tasting-note
	// model and matched against tasting notes as if both lived in the same
	// space. They do not; keep the loose movie profile when changing this.
	matches, err := s.resolver.Resolve(ctx, emotion, s.profiles.Movie)
	if err != nil {
		return s.fail(res, err)
	}
	res.Tags = matching.Tags(matches)

	return s.shoot(ctx, sessionID, text, res)
}

func (s *service) FromTaste(ctx context.Context, sessionID, text string) (*Result, error) {
	res := &Result{Source: telemetry.SourceTaste}

	notes, err := s.extractor.TastingNotes(ctx, text)
	if err != nil {
		return s.fail(res, err)
	}
	res.Notes = notes
	if len(notes) == 0 {
		return s.finish(res, OutcomeNoNotes), nil
	}

	groups, err := s.resolver.ResolveAll(ctx, notes, s.profiles.Taste)
	if err != nil {
		return s.fail(res, err)
	}
	res.Tags = matching.Flatten(groups)

	return s.shoot(ctx, sessionID, text, res)
}

func (s *service) shoot(ctx context.Context, sessionID, query string, res *Result) (*Result, error) {
	whiskies, err := s.recommender.Shoot(ctx, res.Tags)
	if errors.Is(err, whiskey.ErrNoWhiskey) {
		return s.finish(res, OutcomeNoWhiskey), nil
	}
	if err != nil {
		return s.fail(res, err)
	}
	res.Whiskey = &whiskies[0]
	s.finish(res, OutcomeRecommended)

	s.worker.Process(&telemetry.RecommendationEvent{
		SessionID: sessionID,
		Source:    res.Source,
		Query:     strings.TrimSpace(query),
		Emotion:   res.Emotion,
		Tags:      res.Tags,
		Whiskey:   res.Whiskey.Title,
		CreatedAt: time.Now().UTC(),
	})
	return res, nil
}

func (s *service) finish(res *Result, outcome Outcome) *Result {
	res.Outcome = outcome
	prometheus.RecommendationsTotal.WithLabelValues(string(res.Source), outcome.String()).Inc()
	s.logger.WithFields(logrus.Fields{
		"source":  res.Source,
		"outcome": outcome.String(),
		"tags":    res.Tags,
	}).Debug("recommendation flow finished")
	return res
}

func (s *service) fail(res *Result, err error) (*Result, error) {
	prometheus.RecommendationsTotal.WithLabelValues(string(res.Source), "error").Inc()
	return nil, fmt.Errorf("recommend from %s: %w", res.Source, err)
}
