package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	"github.com/NeuralTrust/BarButler/pkg/infra/providers"
	"github.com/sirupsen/logrus"
)

const (
	defaultMaxTokens = 64
	llmTarget        = "llm"
)

var ErrUnknownEmotion = errors.New("unknown emotion")

// Emotions is the closed label set returned by Emotion.
var Emotions = []string{"sadness", "joy", "love", "anger", "fear", "surprise"}

//go:generate mockery --name=Extractor --dir=. --output=./mocks --filename=extractor_mock.go --case=underscore

type Extractor interface {
	// MovieTitle returns "" when the text names no movie.
	MovieTitle(ctx context.Context, text string) (string, error)
	// TastingNotes returns an empty slice when the text names no flavours.
	TastingNotes(ctx context.Context, text string) ([]string, error)
	// Emotion maps a synopsis onto one of Emotions.
	Emotion(ctx context.Context, overview string) (string, error)
}

type llmExtractor struct {
	client providers.Client
	cfg    providers.Config
	logger *logrus.Logger
}

func NewExtractor(client providers.Client, cfg providers.Config, logger *logrus.Logger) Extractor {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &llmExtractor{client: client, cfg: cfg, logger: logger}
}

func (e *llmExtractor) MovieTitle(ctx context.Context, text string) (string, error) {
	answer, err := e.ask(ctx, movieSystemPrompt, fewShot(movieExamples, "movie name", text))
	if err != nil {
		return "", fmt.Errorf("extract movie title: %w", err)
	}
	return providers.FirstLine(answer), nil
}

func (e *llmExtractor) TastingNotes(ctx context.Context, text string) ([]string, error) {
	answer, err := e.ask(ctx, tasteSystemPrompt, fewShot(tasteExamples, "tasting notes", text))
	if err != nil {
		return nil, fmt.Errorf("extract tasting notes: %w", err)
	}
	return SplitNotes(providers.FirstLine(answer)), nil
}

func (e *llmExtractor) Emotion(ctx context.Context, overview string) (string, error) {
	answer, err := e.ask(ctx, emotionSystemPrompt, "synopsis: "+strings.TrimSpace(overview)+"\nemotion:")
	if err != nil {
		return "", fmt.Errorf("extract emotion: %w", err)
	}
	label, ok := NormalizeEmotion(answer)
	if !ok {
		e.logger.WithField("answer", answer).Warn("model answered with an unknown emotion")
		return "", fmt.Errorf("%w: %q", ErrUnknownEmotion, providers.FirstLine(answer))
	}
	return label, nil
}

func (e *llmExtractor) ask(ctx context.Context, system, prompt string) (string, error) {
	cfg := e.cfg
	cfg.SystemPrompt = system

	start := time.Now()
	resp, err := e.client.Ask(ctx, &cfg, prompt)
	prometheus.ObserveExternalCall(llmTarget, start)
	if err != nil {
		return "", err
	}
	e.logger.WithFields(logrus.Fields{
		"model":  resp.Model,
		"tokens": resp.Usage.TotalTokens,
	}).Debug("extraction completion")
	return resp.Text(), nil
}

// SplitNotes splits a comma separated answer, trimming entries and dropping
// empty ones.
func SplitNotes(line string) []string {
	notes := make([]string, 0)
	for _, note := range strings.Split(line, ",") {
		if note = strings.TrimSpace(note); note != "" {
			notes = append(notes, note)
		}
	}
	return notes
}

// NormalizeEmotion lowercases the answer, strips padding tokens and returns
// the first word that is a known label.
func NormalizeEmotion(answer string) (string, bool) {
	cleaned := strings.ToLower(answer)
	for _, token := range []string{"<pad>", "</s>", "<s>"} {
		cleaned = strings.ReplaceAll(cleaned, token, " ")
	}
	words := strings.FieldsFunc(cleaned, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		for _, label := range Emotions {
			if w == label {
				return label, true
			}
		}
	}
	return "", false
}
