package extraction_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/NeuralTrust/BarButler/pkg/app/extraction"
	"github.com/NeuralTrust/BarButler/pkg/infra/providers"
	"github.com/NeuralTrust/BarButler/pkg/infra/providers/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func answer(text string) *providers.CompletionResponse {
	return &providers.CompletionResponse{Model: "gpt-4o-mini", Response: text}
}

func TestMovieTitle(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.MatchedBy(func(cfg *providers.Config) bool {
		return cfg.Model == "gpt-4o-mini" && cfg.MaxTokens == 64 && strings.Contains(cfg.SystemPrompt, "movie")
	}), mock.MatchedBy(func(prompt string) bool {
		return strings.HasSuffix(prompt, "user: I want to watch Twilight tonight\nmovie name:") &&
			strings.Contains(prompt, "movie name: Top Gun: Maverick")
	})).Return(answer(" Twilight\nNew Moon"), nil)

	ex := extraction.NewExtractor(client, providers.Config{Model: "gpt-4o-mini"}, quiet())
	title, err := ex.MovieTitle(context.Background(), "  I want to watch Twilight tonight ")
	require.NoError(t, err)
	assert.Equal(t, "Twilight", title)
	client.AssertExpectations(t)
}

func TestMovieTitle_Nothing(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).Return(answer("\n\n"), nil)

	title, err := extraction.NewExtractor(client, providers.Config{}, quiet()).MovieTitle(context.Background(), "hello")
	require.NoError(t, err)
	assert.Empty(t, title)
}

func TestTastingNotes(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.HasSuffix(prompt, "\ntasting notes:")
	})).Return(answer(" light, flowery ,, complex\nuser: more"), nil)

	notes, err := extraction.NewExtractor(client, providers.Config{}, quiet()).
		TastingNotes(context.Background(), "Can you recommend a light whiskey that is flowery and complex?")
	require.NoError(t, err)
	assert.Equal(t, []string{"light", "flowery", "complex"}, notes)
}

func TestTastingNotes_ProviderError(t *testing.T) {
	client := new(mocks.MockClient)
	boom := errors.New("rate limited")
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	_, err := extraction.NewExtractor(client, providers.Config{}, quiet()).TastingNotes(context.Background(), "smoky")
	assert.ErrorIs(t, err, boom)
}

func TestEmotion(t *testing.T) {
	tests := []struct {
		answer  string
		want    string
		wantErr bool
	}{
		{"joy", "joy", false},
		{"<pad> Fear</s>", "fear", false},
		{"The emotion is: SURPRISE.", "surprise", false},
		{"enjoyment", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			client := new(mocks.MockClient)
			client.On("Ask", mock.Anything, mock.Anything, mock.MatchedBy(func(prompt string) bool {
				return strings.HasPrefix(prompt, "synopsis: A shark terrorises a beach town.")
			})).Return(answer(tt.answer), nil)

			got, err := extraction.NewExtractor(client, providers.Config{}, quiet()).
				Emotion(context.Background(), "A shark terrorises a beach town.")
			if tt.wantErr {
				assert.ErrorIs(t, err, extraction.ErrUnknownEmotion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitNotes(t *testing.T) {
	assert.Equal(t, []string{}, extraction.SplitNotes(""))
	assert.Equal(t, []string{"smoky"}, extraction.SplitNotes(" smoky , "))
}
