package websocket

import (
	"context"
	"errors"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/app/conversation"
	"github.com/NeuralTrust/BarButler/pkg/domain/session"
	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	infraWebsocket "github.com/NeuralTrust/BarButler/pkg/infra/websocket"
	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

const (
	defaultPingPeriod = 30 * time.Second
	defaultPongWait   = 45 * time.Second
	writeWait         = 10 * time.Second
)

type Option func(*conversationHandler)

func WithKeepAlive(pingPeriod, pongWait time.Duration) Option {
	return func(h *conversationHandler) {
		if pingPeriod > 0 {
			h.pingPeriod = pingPeriod
		}
		if pongWait > 0 {
			h.pongWait = pongWait
		}
	}
}

type conversationHandler struct {
	logger     *logrus.Logger
	engine     conversation.Engine
	pingPeriod time.Duration
	pongWait   time.Duration
}

// NewConversationHandler runs one conversation per connection. Every text
// frame is a user turn and every answer is a JSON frame. The session is
// dropped when the socket closes.
func NewConversationHandler(logger *logrus.Logger, engine conversation.Engine, opts ...Option) Handler {
	h := &conversationHandler{
		logger:     logger,
		engine:     engine,
		pingPeriod: defaultPingPeriod,
		pongWait:   defaultPongWait,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *conversationHandler) Handle(c *websocket.Conn) {
	if limiter, ok := c.Locals(infraWebsocket.LimiterLocalsKey).(*infraWebsocket.ConnectionLimiter); ok {
		defer limiter.Release()
	}
	prometheus.WebsocketConnections.Inc()
	defer prometheus.WebsocketConnections.Dec()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.SetReadDeadline(time.Now().Add(h.pongWait)); err != nil {
		h.logger.WithError(err).Error("failed to set read deadline")
		return
	}
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(h.pongWait))
	})
	go h.keepAlive(ctx, c)

	start, err := h.engine.Start(ctx)
	if err != nil {
		h.logger.WithError(err).Error("failed to start websocket conversation")
		h.writeError(c, "", err)
		return
	}
	sessionID := start.SessionID
	if err := c.WriteJSON(start); err != nil {
		h.logger.WithError(err).Error("failed to send greeting")
		h.end(ctx, sessionID)
		return
	}

	for {
		messageType, msg, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.WithError(err).WithField("session_id", sessionID).Warn("websocket closed unexpectedly")
			}
			h.end(ctx, sessionID)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		h.extendReadDeadline(c)

		reply, err := h.engine.Handle(ctx, sessionID, string(msg))
		if err != nil {
			h.logger.WithError(err).WithField("session_id", sessionID).Error("websocket turn failed")
			h.writeError(c, sessionID, err)
			if errors.Is(err, session.ErrSessionNotFound) {
				h.close(c, websocket.CloseNormalClosure, "session expired")
				return
			}
			h.extendReadDeadline(c)
			continue
		}
		if err := c.WriteJSON(reply); err != nil {
			h.logger.WithError(err).WithField("session_id", sessionID).Error("failed to write reply")
			h.end(ctx, sessionID)
			return
		}
		if reply.Ended {
			h.close(c, websocket.CloseNormalClosure, "done")
			return
		}
		// a turn can outlast pongWait; the client gets a full window to answer
		h.extendReadDeadline(c)
	}
}

func (h *conversationHandler) extendReadDeadline(c *websocket.Conn) {
	if err := c.SetReadDeadline(time.Now().Add(h.pongWait)); err != nil {
		h.logger.WithError(err).Debug("failed to extend read deadline")
	}
}

func (h *conversationHandler) keepAlive(ctx context.Context, c *websocket.Conn) {
	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				h.logger.WithError(err).Debug("failed to send ping")
				return
			}
		}
	}
}

func (h *conversationHandler) end(ctx context.Context, sessionID string) {
	if err := h.engine.End(ctx, sessionID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		h.logger.WithError(err).WithField("session_id", sessionID).Warn("failed to drop session")
	}
}

func (h *conversationHandler) writeError(c *websocket.Conn, sessionID string, err error) {
	frame := infraWebsocket.ErrorFrame{SessionID: sessionID, Error: err.Error()}
	if werr := c.WriteJSON(frame); werr != nil {
		h.logger.WithError(werr).Debug("failed to write error frame")
	}
}

func (h *conversationHandler) close(c *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	if err := c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		h.logger.WithError(err).Debug("failed to send close frame")
	}
}
