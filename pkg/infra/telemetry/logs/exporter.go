package logs

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/BarButler/pkg/domain/telemetry"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
)

const ExporterName = "log"

type Config struct {
	Level string `mapstructure:"level"`
}

// Exporter writes recommendation events to the application log.
type Exporter struct {
	logger *logrus.Logger
	level  logrus.Level
}

func NewLogExporter(logger *logrus.Logger) *Exporter {
	return &Exporter{logger: logger, level: logrus.InfoLevel}
}

func (e *Exporter) Name() string {
	return ExporterName
}

func (e *Exporter) ValidateConfig(settings map[string]interface{}) error {
	_, err := e.decode(settings)
	return err
}

func (e *Exporter) decode(settings map[string]interface{}) (logrus.Level, error) {
	var conf Config
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return 0, fmt.Errorf("invalid log exporter config: %w", err)
	}
	if conf.Level == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(conf.Level)
	if err != nil {
		return 0, fmt.Errorf("invalid log exporter level: %w", err)
	}
	return level, nil
}

func (e *Exporter) WithSettings(settings map[string]interface{}) (telemetry.Exporter, error) {
	level, err := e.decode(settings)
	if err != nil {
		return nil, err
	}
	return &Exporter{logger: e.logger, level: level}, nil
}

func (e *Exporter) Handle(_ context.Context, evt *telemetry.RecommendationEvent) error {
	e.logger.WithFields(logrus.Fields{
		"session_id": evt.SessionID,
		"source":     evt.Source,
		"query":      evt.Query,
		"emotion":    evt.Emotion,
		"tags":       evt.Tags,
		"whiskey":    evt.Whiskey,
	}).Log(e.level, "recommendation")
	return nil
}

func (e *Exporter) Close() {}
