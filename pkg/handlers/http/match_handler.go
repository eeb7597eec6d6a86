package http

import (
	"github.com/NeuralTrust/BarButler/pkg/app/matching"
	"github.com/NeuralTrust/BarButler/pkg/handlers/http/request"
	"github.com/NeuralTrust/BarButler/pkg/handlers/http/response"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type matchHandler struct {
	logger   *logrus.Logger
	resolver *matching.Resolver
	fallback matching.Profile
}

// NewMatchHandler serves raw vocabulary lookups. Fields missing from the
// request are taken from fallback.
func NewMatchHandler(logger *logrus.Logger, resolver *matching.Resolver, fallback matching.Profile) Handler {
	return &matchHandler{
		logger:   logger,
		resolver: resolver,
		fallback: fallback,
	}
}

// Handle @Summary Match a phrase against the vocabulary
// @Description Returns the vocabulary tags closest to the query
// @Tags Matching
// @Accept json
// @Produce json
// @Param match body request.MatchRequest true "Query and optional profile"
// @Success 200 {object} response.MatchResponse "Ranked matches"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 503 {object} map[string]interface{} "Matching unavailable"
// @Router /api/v1/match [post]
func (h *matchHandler) Handle(c *fiber.Ctx) error {
	var req request.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.WithError(err).Error("failed to parse match request")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	profile := req.Profile(h.fallback)
	matches, err := h.resolver.Resolve(c.Context(), req.Query, profile)
	if err != nil {
		h.logger.WithError(err).Error("vocabulary lookup failed")
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(response.MatchResponse{
		Query:     req.Query,
		Threshold: profile.Threshold,
		TopK:      profile.TopK,
		Matches:   matches,
	})
}
