package http

import (
	"github.com/NeuralTrust/BarButler/pkg/app/conversation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type deleteConversationHandler struct {
	logger *logrus.Logger
	engine conversation.Engine
}

func NewDeleteConversationHandler(logger *logrus.Logger, engine conversation.Engine) Handler {
	return &deleteConversationHandler{
		logger: logger,
		engine: engine,
	}
}

// Handle @Summary End a conversation
// @Tags Conversations
// @Param session_id path string true "Session ID"
// @Success 204 "Session deleted"
// @Failure 404 {object} map[string]interface{} "Session not found"
// @Router /api/v1/conversations/{session_id} [delete]
func (h *deleteConversationHandler) Handle(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if err := h.engine.End(c.Context(), sessionID); err != nil {
		h.logger.WithError(err).WithField("session_id", sessionID).Error("failed to end conversation")
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
