package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type metricsMiddleware struct {
	logger *logrus.Logger
}

// NewMetricsMiddleware records request counts and latency per route
// template, so session ids never become label values.
func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	return &metricsMiddleware{logger: logger}
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// websocket connections are tracked by their own gauge
		if strings.HasPrefix(c.Path(), "/ws/") {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}

		route := c.Route().Path
		elapsed := time.Since(start)
		prometheus.HTTPRequestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		prometheus.HTTPRequestLatency.WithLabelValues(route).Observe(float64(elapsed.Milliseconds()))

		m.logger.WithFields(logrus.Fields{
			"method":   c.Method(),
			"route":    route,
			"status":   status,
			"duration": elapsed.String(),
		}).Debug("request served")

		return err
	}
}
