package telemetry

import (
	"context"
)

type Exporter interface {
	Name() string
	ValidateConfig(settings map[string]interface{}) error
	Handle(ctx context.Context, evt *RecommendationEvent) error
	WithSettings(settings map[string]interface{}) (Exporter, error)
	Close()
}
