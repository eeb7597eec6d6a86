package http

import (
	"errors"

	"github.com/NeuralTrust/BarButler/pkg/app/matching"
	"github.com/NeuralTrust/BarButler/pkg/domain/session"
	"github.com/gofiber/fiber/v2"
)

const ErrInvalidJsonPayload = "invalid JSON payload"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport interface {
	GetTransport() HandlerTransport
}

type HandlerTransportDTO struct {
	HealthHandler  Handler
	VersionHandler Handler

	// Conversation
	CreateConversationHandler Handler
	SendMessageHandler        Handler
	DeleteConversationHandler Handler

	// Matching
	MatchHandler Handler
}

func (t *HandlerTransportDTO) GetTransport() HandlerTransport {
	return t
}

// statusFor maps domain errors to HTTP status codes. Anything unknown comes
// from an external service.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, matching.ErrMatchingUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusBadGateway
	}
}
