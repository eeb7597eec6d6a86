package telemetry

import (
	"fmt"

	domain "github.com/NeuralTrust/BarButler/pkg/domain/telemetry"
	factory "github.com/NeuralTrust/BarButler/pkg/infra/telemetry"
)

type ExportersBuilder interface {
	Build(configs []domain.ExporterConfig) ([]domain.Exporter, error)
}

type exportersBuilder struct {
	locator *factory.ExporterLocator
}

func NewExportersBuilder(locator *factory.ExporterLocator) ExportersBuilder {
	return &exportersBuilder{locator: locator}
}

// Build configures every exporter or none: on failure the ones already built
// are closed.
func (b *exportersBuilder) Build(configs []domain.ExporterConfig) ([]domain.Exporter, error) {
	exporters := make([]domain.Exporter, 0, len(configs))
	for _, cfg := range configs {
		exporter, err := b.locator.GetExporter(cfg)
		if err != nil {
			for _, built := range exporters {
				built.Close()
			}
			return nil, fmt.Errorf("telemetry exporter %q: %w", cfg.Name, err)
		}
		exporters = append(exporters, exporter)
	}
	return exporters, nil
}
