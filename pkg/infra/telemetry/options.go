package telemetry

import "github.com/NeuralTrust/BarButler/pkg/domain/telemetry"

type ExporterLocatorOption func(*ExporterLocator)

// WithExporter registers a prototype; a later registration with the same
// name replaces the earlier one.
func WithExporter(exporter telemetry.Exporter) ExporterLocatorOption {
	return func(el *ExporterLocator) {
		if el.exporters == nil {
			el.exporters = make(map[string]telemetry.Exporter)
		}
		el.exporters[exporter.Name()] = exporter
	}
}
