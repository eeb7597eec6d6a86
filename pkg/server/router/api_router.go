package router

import (
	"errors"

	handlers "github.com/NeuralTrust/BarButler/pkg/handlers/http"
	"github.com/NeuralTrust/BarButler/pkg/server/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

const (
	HealthPath  = "/health"
	VersionPath = "/version"
	DocsPath    = "/docs/*"
	SwaggerPath = "/swagger.json"
)

var (
	ErrInvalidHandlerTransport = errors.New("invalid handler transport")
)

type apiRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
	swaggerFile         string
	swaggerURL          string
}

func NewAPIRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
	swaggerFile string,
	swaggerURL string,
) ServerRouter {
	return &apiRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		swaggerFile:         swaggerFile,
		swaggerURL:          swaggerURL,
	}
}

func (r *apiRouter) BuildRoutes(router *fiber.App) error {
	handlerTransport, ok := r.handlerTransport.GetTransport().(*handlers.HandlerTransportDTO)
	if !ok {
		return ErrInvalidHandlerTransport
	}

	router.Get(HealthPath, handlerTransport.HealthHandler.Handle)
	router.Get(VersionPath, handlerTransport.VersionHandler.Handle)

	if r.swaggerFile != "" {
		router.Static(SwaggerPath, r.swaggerFile)
		router.Get(DocsPath, swagger.New(swagger.Config{
			URL: r.swaggerURL,
		}))
	}

	v1 := router.Group("/api/v1")
	{
		if r.middlewareTransport.Len() > 0 {
			v1.Use(r.middlewareTransport.Handlers()...)
		}

		conversations := v1.Group("/conversations")
		{
			conversations.Post("", handlerTransport.CreateConversationHandler.Handle)
			conversations.Post("/:session_id/messages", handlerTransport.SendMessageHandler.Handle)
			conversations.Delete("/:session_id", handlerTransport.DeleteConversationHandler.Handle)
		}

		v1.Post("/match", handlerTransport.MatchHandler.Handle)
	}
	return nil
}
