package http

import (
	"github.com/NeuralTrust/BarButler/pkg/app/conversation"
	"github.com/NeuralTrust/BarButler/pkg/handlers/http/request"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type sendMessageHandler struct {
	logger *logrus.Logger
	engine conversation.Engine
}

func NewSendMessageHandler(logger *logrus.Logger, engine conversation.Engine) Handler {
	return &sendMessageHandler{
		logger: logger,
		engine: engine,
	}
}

// Handle @Summary Send a message
// @Description Runs one conversation turn and returns the bot replies
// @Tags Conversations
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param message body request.SendMessageRequest true "User message"
// @Success 200 {object} conversation.Reply "Turn result"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Failure 502 {object} map[string]interface{} "External service failed"
// @Router /api/v1/conversations/{session_id}/messages [post]
func (h *sendMessageHandler) Handle(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")

	var req request.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to parse message request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	reply, err := h.engine.Handle(c.Context(), sessionID, req.Text)
	if err != nil {
		h.logger.WithError(err).WithField("session_id", sessionID).Error("conversation turn failed")
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(reply)
}
