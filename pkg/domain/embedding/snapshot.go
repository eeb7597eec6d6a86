package embedding

import (
	"time"
)

// Snapshot is the persisted embedding of a whole vocabulary.
type Snapshot struct {
	Fingerprint string      `json:"fingerprint"`
	Model       string      `json:"model"`
	Dimensions  int         `json:"dimensions"`
	Tags        []string    `json:"tags"`
	Vectors     [][]float64 `json:"vectors"`
	CreatedAt   time.Time   `json:"created_at"`
}

func NewSnapshot(fingerprint, model string, tags []string, vectors [][]float64) *Snapshot {
	dims := 0
	if len(vectors) > 0 {
		dims = len(vectors[0])
	}
	return &Snapshot{
		Fingerprint: fingerprint,
		Model:       model,
		Dimensions:  dims,
		Tags:        tags,
		Vectors:     vectors,
		CreatedAt:   time.Now(),
	}
}

// Matches reports whether the snapshot was built for exactly this fingerprint
// and tag list and is internally consistent.
func (s *Snapshot) Matches(fingerprint string, tags []string) bool {
	if s == nil || s.Fingerprint != fingerprint {
		return false
	}
	if len(s.Tags) != len(tags) || len(s.Vectors) != len(tags) {
		return false
	}
	for i := range tags {
		if s.Tags[i] != tags[i] {
			return false
		}
		if len(s.Vectors[i]) == 0 || len(s.Vectors[i]) != s.Dimensions {
			return false
		}
	}
	return true
}
