package telemetry

import (
	"errors"
	"fmt"

	"github.com/NeuralTrust/BarButler/pkg/domain/telemetry"
)

var ErrUnknownExporter = errors.New("unknown exporter")

// ExporterLocator holds unconfigured prototypes of every exporter the binary
// supports and builds configured instances from them.
type ExporterLocator struct {
	exporters map[string]telemetry.Exporter
}

func NewExporterLocator(opts ...ExporterLocatorOption) *ExporterLocator {
	el := &ExporterLocator{
		exporters: make(map[string]telemetry.Exporter),
	}
	for _, opt := range opts {
		opt(el)
	}
	return el
}

func (p *ExporterLocator) GetExporter(cfg telemetry.ExporterConfig) (telemetry.Exporter, error) {
	base, ok := p.exporters[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Name)
	}
	if err := base.ValidateConfig(cfg.Settings); err != nil {
		return nil, err
	}
	return base.WithSettings(cfg.Settings)
}

func (p *ExporterLocator) ValidateExporter(cfg telemetry.ExporterConfig) error {
	base, ok := p.exporters[cfg.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Name)
	}
	return base.ValidateConfig(cfg.Settings)
}
