package telemetry

import (
	"fmt"

	domain "github.com/NeuralTrust/BarButler/pkg/domain/telemetry"
	factory "github.com/NeuralTrust/BarButler/pkg/infra/telemetry"
)

type ExportersValidator interface {
	Validate(configs []domain.ExporterConfig) error
}

type exportersValidator struct {
	locator *factory.ExporterLocator
}

func NewExportersValidator(locator *factory.ExporterLocator) ExportersValidator {
	return &exportersValidator{locator: locator}
}

func (v *exportersValidator) Validate(configs []domain.ExporterConfig) error {
	for _, cfg := range configs {
		if err := v.locator.ValidateExporter(cfg); err != nil {
			return fmt.Errorf("telemetry exporter %q: %w", cfg.Name, err)
		}
	}
	return nil
}
