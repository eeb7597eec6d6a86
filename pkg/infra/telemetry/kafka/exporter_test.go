package kafka_test

import (
	"context"
	"testing"

	"github.com/NeuralTrust/BarButler/pkg/domain/telemetry"
	"github.com/NeuralTrust/BarButler/pkg/infra/telemetry/kafka"
	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	exporter := kafka.NewKafkaExporter()
	assert.Equal(t, "kafka", exporter.Name())

	tests := []struct {
		name     string
		settings map[string]interface{}
		wantErr  string
	}{
		{"valid", map[string]interface{}{"host": "localhost", "port": "9092", "topic": "recommendations"}, ""},
		{"numeric port", map[string]interface{}{"host": "localhost", "port": 9092, "topic": "recommendations"}, ""},
		{"missing host", map[string]interface{}{"port": "9092", "topic": "t"}, "kafka host is required"},
		{"missing port", map[string]interface{}{"host": "localhost", "topic": "t"}, "kafka port is required"},
		{"missing topic", map[string]interface{}{"host": "localhost", "port": "9092"}, "kafka topic is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := exporter.ValidateConfig(tt.settings)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestHandle_WithoutProducer(t *testing.T) {
	err := kafka.NewKafkaExporter().Handle(context.Background(), &telemetry.RecommendationEvent{SessionID: "s"})
	assert.Error(t, err)
}
