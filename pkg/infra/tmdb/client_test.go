package tmdb_test

import (
	"context"
	"errors"
	"io"
	"net/url"
	"testing"

	"github.com/NeuralTrust/BarButler/pkg/domain/movie"
	"github.com/NeuralTrust/BarButler/pkg/infra/httpx"
	"github.com/NeuralTrust/BarButler/pkg/infra/httpx/mocks"
	"github.com/NeuralTrust/BarButler/pkg/infra/tmdb"
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

func TestSearch_FirstResult(t *testing.T) {
	httpClient := new(mocks.MockHTTPClient)
	httpClient.On("Do", mock.Anything, mock.MatchedBy(func(r *httpx.Request) bool {
		u, err := url.Parse(r.URL)
		if err != nil {
			return false
		}
		q := u.Query()
		return u.Host == "api.themoviedb.org" &&
			u.Path == "/3/search/movie" &&
			q.Get("api_key") == "tmdb-key" &&
			q.Get("query") == "Top Gun: Maverick" &&
			q.Get("language") == "en-US" &&
			q.Get("page") == "1" &&
			q.Get("include_adult") == "true"
	})).Return(&httpx.Response{
		StatusCode: 200,
		Body: []byte(`{"page":1,"total_results":2,"results":[
			{"title":"Top Gun: Maverick","original_title":"Top Gun: Maverick","overview":"After more than thirty years of service..."},
			{"title":"Top Gun","original_title":"Top Gun","overview":"Other"}
		]}`),
	}, nil)

	finder := tmdb.NewClient(httpClient, tmdb.Config{ApiKey: "tmdb-key", IncludeAdult: true}, quiet())
	m, err := finder.Search(context.Background(), "Top Gun: Maverick")
	require.NoError(t, err)
	assert.Equal(t, "Top Gun: Maverick", m.OriginalTitle)
	assert.Equal(t, "After more than thirty years of service...", m.Overview)
}

func TestSearch_NoResults(t *testing.T) {
	httpClient := new(mocks.MockHTTPClient)
	httpClient.On("Do", mock.Anything, mock.Anything).
		Return(&httpx.Response{StatusCode: 200, Body: []byte(`{"total_results":0,"results":[]}`)}, nil)

	_, err := tmdb.NewClient(httpClient, tmdb.Config{}, quiet()).Search(context.Background(), "Zzzz")
	assert.ErrorIs(t, err, movie.ErrMovieNotFound)
}

func TestSearch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		resp    *httpx.Response
		err     error
		wantErr error
	}{
		{"unauthorized", &httpx.Response{StatusCode: 401}, nil, httpx.ErrUpstreamStatus},
		{"transport", nil, errors.New("timeout"), nil},
		{"malformed", &httpx.Response{StatusCode: 200, Body: []byte(`{"results":`)}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpClient := new(mocks.MockHTTPClient)
			httpClient.On("Do", mock.Anything, mock.Anything).Return(tt.resp, tt.err)

			_, err := tmdb.NewClient(httpClient, tmdb.Config{}, quiet()).Search(context.Background(), "Jaws")
			require.Error(t, err)
			assert.NotErrorIs(t, err, movie.ErrMovieNotFound)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
