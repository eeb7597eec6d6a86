package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/NeuralTrust/BarButler/pkg/domain/telemetry"
	"github.com/stretchr/testify/assert"
)

type stubExporter struct {
	name            string
	validateErr     error
	withSettingsErr error
	configured      telemetry.Exporter
}

func (m *stubExporter) Name() string { return m.name }

func (m *stubExporter) ValidateConfig(map[string]interface{}) error { return m.validateErr }

func (m *stubExporter) Handle(context.Context, *telemetry.RecommendationEvent) error { return nil }

func (m *stubExporter) WithSettings(map[string]interface{}) (telemetry.Exporter, error) {
	if m.withSettingsErr != nil {
		return nil, m.withSettingsErr
	}
	if m.configured != nil {
		return m.configured, nil
	}
	return m, nil
}

func (m *stubExporter) Close() {}

func TestNewExporterLocator_RegistersByName(t *testing.T) {
	first := &stubExporter{name: "kafka"}
	second := &stubExporter{name: "kafka"}
	logExporter := &stubExporter{name: "log"}

	locator := NewExporterLocator(WithExporter(first), WithExporter(second), WithExporter(logExporter))

	assert.Len(t, locator.exporters, 2)
	assert.Same(t, second, locator.exporters["kafka"])
}

func TestGetExporter(t *testing.T) {
	configured := &stubExporter{name: "kafka"}
	locator := NewExporterLocator(WithExporter(&stubExporter{name: "kafka", configured: configured}))

	got, err := locator.GetExporter(telemetry.ExporterConfig{
		Name:     "kafka",
		Settings: map[string]interface{}{"host": "localhost", "port": "9092", "topic": "recommendations"},
	})
	assert.NoError(t, err)
	assert.Same(t, configured, got)
}

func TestGetExporter_Errors(t *testing.T) {
	tests := []struct {
		name     string
		exporter *stubExporter
		cfgName  string
		wantErr  string
		unknown  bool
	}{
		{name: "unknown", exporter: &stubExporter{name: "kafka"}, cfgName: "pubsub", unknown: true},
		{name: "invalid", exporter: &stubExporter{name: "kafka", validateErr: errors.New("kafka host is required")}, cfgName: "kafka", wantErr: "kafka host is required"},
		{name: "settings", exporter: &stubExporter{name: "kafka", withSettingsErr: errors.New("failed to create kafka producer")}, cfgName: "kafka", wantErr: "failed to create kafka producer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator := NewExporterLocator(WithExporter(tt.exporter))
			got, err := locator.GetExporter(telemetry.ExporterConfig{Name: tt.cfgName})
			assert.Nil(t, got)
			if tt.unknown {
				assert.ErrorIs(t, err, ErrUnknownExporter)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidateExporter(t *testing.T) {
	locator := NewExporterLocator(
		WithExporter(&stubExporter{name: "kafka", validateErr: errors.New("kafka topic is required")}),
		WithExporter(&stubExporter{name: "log"}),
	)

	assert.NoError(t, locator.ValidateExporter(telemetry.ExporterConfig{Name: "log"}))
	assert.EqualError(t, locator.ValidateExporter(telemetry.ExporterConfig{Name: "kafka"}), "kafka topic is required")
	assert.ErrorIs(t, locator.ValidateExporter(telemetry.ExporterConfig{Name: "nope"}), ErrUnknownExporter)
}
