package middleware

import (
	infra "github.com/NeuralTrust/BarButler/pkg/infra/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type websocketMiddleware struct {
	logger  *logrus.Logger
	limiter *infra.ConnectionLimiter
}

// NewWebsocketMiddleware rejects plain HTTP requests and upgrades past the
// connection limit. The slot taken here is released by the handler.
func NewWebsocketMiddleware(logger *logrus.Logger, limiter *infra.ConnectionLimiter) Middleware {
	return &websocketMiddleware{
		logger:  logger,
		limiter: limiter,
	}
}

func (m *websocketMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if !m.limiter.TryAcquire() {
			m.logger.Warn("maximum websocket connections reached, rejecting connection")
			return fiber.ErrTooManyRequests
		}
		c.Locals(infra.LimiterLocalsKey, m.limiter)
		return c.Next()
	}
}
