package request

import (
	"fmt"
	"strings"

	"github.com/NeuralTrust/BarButler/pkg/app/matching"
)

const maxTopK = 100

type MatchRequest struct {
	Query     string   `json:"query"`
	Threshold *float64 `json:"threshold,omitempty"`
	TopK      *int     `json:"top_k,omitempty"`
}

func (r *MatchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("query is required")
	}
	if r.Threshold != nil && (*r.Threshold < -1 || *r.Threshold > 1) {
		return fmt.Errorf("threshold must be between -1 and 1")
	}
	if r.TopK != nil && *r.TopK > maxTopK {
		return fmt.Errorf("top_k must not exceed %d", maxTopK)
	}
	return nil
}

// Profile fills the fields the caller left out from fallback.
func (r *MatchRequest) Profile(fallback matching.Profile) matching.Profile {
	p := fallback
	if r.Threshold != nil {
		p.Threshold = *r.Threshold
	}
	if r.TopK != nil {
		p.TopK = *r.TopK
	}
	return p
}
