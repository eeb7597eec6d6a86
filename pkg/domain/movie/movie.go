package movie

import (
	"context"
	"errors"
)

var ErrMovieNotFound = errors.New("movie not found")

type Movie struct {
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	Overview      string `json:"overview"`
}

//go:generate mockery --name=Finder --dir=. --output=./mocks --filename=finder_mock.go --case=underscore

// Finder looks up a movie by title. It returns ErrMovieNotFound when the
// search has no results.
type Finder interface {
	Search(ctx context.Context, title string) (*Movie, error)
}
