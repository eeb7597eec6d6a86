package router

import (
	"time"

	wsHandlers "github.com/NeuralTrust/BarButler/pkg/handlers/websocket"
	"github.com/NeuralTrust/BarButler/pkg/server/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const ConversationsWebsocketPath = "/conversations"

type websocketRouter struct {
	upgradeMiddleware  middleware.Middleware
	wsHandlerTransport wsHandlers.HandlerTransport
}

func NewWebsocketRouter(
	upgradeMiddleware middleware.Middleware,
	wsHandlerTransport wsHandlers.HandlerTransport,
) ServerRouter {
	return &websocketRouter{
		upgradeMiddleware:  upgradeMiddleware,
		wsHandlerTransport: wsHandlerTransport,
	}
}

func (r *websocketRouter) BuildRoutes(router *fiber.App) error {
	wsHandlerTransport, ok := r.wsHandlerTransport.GetTransport().(*wsHandlers.HandlerTransportDTO)
	if !ok {
		return ErrInvalidHandlerTransport
	}

	ws := router.Group("/ws", r.upgradeMiddleware.Middleware())
	ws.Get(ConversationsWebsocketPath, websocket.New(
		wsHandlerTransport.ConversationHandler.Handle,
		websocket.Config{
			HandshakeTimeout: 15 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	))
	return nil
}
