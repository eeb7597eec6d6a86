package http

import (
	"github.com/NeuralTrust/BarButler/pkg/app/conversation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type createConversationHandler struct {
	logger *logrus.Logger
	engine conversation.Engine
}

func NewCreateConversationHandler(logger *logrus.Logger, engine conversation.Engine) Handler {
	return &createConversationHandler{
		logger: logger,
		engine: engine,
	}
}

// Handle @Summary Start a conversation
// @Description Opens a new session and returns the greeting
// @Tags Conversations
// @Produce json
// @Success 201 {object} conversation.Reply "Session created"
// @Failure 502 {object} map[string]interface{} "Session store unavailable"
// @Router /api/v1/conversations [post]
func (h *createConversationHandler) Handle(c *fiber.Ctx) error {
	reply, err := h.engine.Start(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to start conversation")
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": "failed to start conversation"})
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}
