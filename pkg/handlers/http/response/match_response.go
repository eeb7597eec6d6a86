package response

import "github.com/NeuralTrust/BarButler/pkg/app/matching"

type MatchResponse struct {
	Query     string           `json:"query"`
	Threshold float64          `json:"threshold"`
	TopK      int              `json:"top_k"`
	Matches   []matching.Match `json:"matches"`
}
