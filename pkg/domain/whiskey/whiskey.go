package whiskey

import (
	"context"
	"errors"
)

var ErrNoWhiskey = errors.New("no whiskey matches the given tags")

type Whiskey struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

//go:generate mockery --name=Recommender --dir=. --output=./mocks --filename=recommender_mock.go --case=underscore

// Recommender returns the whiskies matching all tags, best first. It returns
// ErrNoWhiskey when the result set is empty.
type Recommender interface {
	Shoot(ctx context.Context, tags []string) ([]Whiskey, error)
}
