package matching

import (
	"context"
	"strings"
)

// Resolver maps free-text descriptors onto vocabulary tags.
type Resolver struct {
	index Index
}

func NewResolver(index Index) *Resolver {
	return &Resolver{index: index}
}

func (r *Resolver) Resolve(ctx context.Context, phrase string, profile Profile) ([]Match, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return []Match{}, nil
	}
	return r.index.Lookup(ctx, phrase, profile)
}

// ResolveAll resolves every phrase with the same profile and returns the
// results in phrase order.
func (r *Resolver) ResolveAll(ctx context.Context, phrases []string, profile Profile) ([][]Match, error) {
	out := make([][]Match, 0, len(phrases))
	for _, p := range phrases {
		matches, err := r.Resolve(ctx, p, profile)
		if err != nil {
			return nil, err
		}
		out = append(out, matches)
	}
	return out, nil
}

// Flatten returns the tags of all groups in order, dropping repeats.
func Flatten(groups [][]Match) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0, len(groups))
	for _, g := range groups {
		for _, m := range g {
			if _, ok := seen[m.Tag]; ok {
				continue
			}
			seen[m.Tag] = struct{}{}
			tags = append(tags, m.Tag)
		}
	}
	return tags
}

func Tags(matches []Match) []string {
	return Flatten([][]Match{matches})
}
