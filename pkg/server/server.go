package server

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/config"
	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	"github.com/NeuralTrust/BarButler/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const MetricsPath = "/metrics"

type Server interface {
	Run() error
	Shutdown() error
}

type (
	APIServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	APIServer struct {
		config     *config.Config
		logger     *logrus.Logger
		router     *fiber.App
		metricsApp *fiber.App
	}
)

func newFiberApp() *fiber.App {
	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Network:               fiber.NetworkTCP,
		BodyLimit:             1 * 1024 * 1024,
		ReadTimeout:           60 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
	})
	r.Server().NoDefaultServerHeader = true
	r.Use(recover.New())
	return r
}

// NewAPIServer builds the public app and, when metrics are enabled, a second
// app exposing the prometheus registry on its own port.
func NewAPIServer(di APIServerDI) (*APIServer, error) {
	s := &APIServer{
		config: di.Config,
		logger: di.Logger,
		router: newFiberApp(),
	}
	for _, r := range di.Routers {
		if err := r.BuildRoutes(s.router); err != nil {
			return nil, fmt.Errorf("build routes: %w", err)
		}
	}

	if di.Config.Metrics.Enabled {
		prometheus.Initialize(prometheus.MetricsConfig{EnableProcess: di.Config.Metrics.EnableProcess})
		s.metricsApp = newMetricsApp()
	}
	return s, nil
}

func newMetricsApp() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get(MetricsPath, func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	})
	return app
}

// App exposes the routed fiber app for in-process tests.
func (s *APIServer) App() *fiber.App {
	return s.router
}

func (s *APIServer) Run() error {
	if s.metricsApp != nil {
		go func() {
			addr := fmt.Sprintf(":%d", s.config.Server.MetricsPort)
			s.logger.WithField("addr", addr).Info("starting metrics server")
			if err := s.metricsApp.Listen(addr); err != nil && !errors.Is(err, net.ErrClosed) {
				s.logger.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.WithField("addr", addr).Info("starting api server")
	return s.router.Listen(addr)
}

func (s *APIServer) Shutdown() error {
	var errs []error
	if s.metricsApp != nil {
		errs = append(errs, s.metricsApp.Shutdown())
	}
	errs = append(errs, s.router.Shutdown())
	return errors.Join(errs...)
}
