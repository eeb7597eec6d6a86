package telemetry

import (
	"time"
)

type Source string

const (
	SourceMovie Source = "movie"
	SourceTaste Source = "taste"
)

type ExporterConfig struct {
	Name     string                 `mapstructure:"name" json:"name"`
	Settings map[string]interface{} `mapstructure:"settings" json:"settings"`
}

type RecommendationEvent struct {
	SessionID string    `json:"session_id"`
	Source    Source    `json:"source"`
	Query     string    `json:"query"`
	Emotion   string    `json:"emotion,omitempty"`
	Tags      []string  `json:"tags"`
	Whiskey   string    `json:"whiskey,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
