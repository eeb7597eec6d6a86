package websocket

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/app/conversation"
	conversationMocks "github.com/NeuralTrust/BarButler/pkg/app/conversation/mocks"
	infraWebsocket "github.com/NeuralTrust/BarButler/pkg/infra/websocket"
	"github.com/NeuralTrust/BarButler/pkg/server/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	gorilla "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, engine conversation.Engine, limit int, opts ...Option) string {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	ws := app.Group("/ws", middleware.NewWebsocketMiddleware(logger, infraWebsocket.NewConnectionLimiter(limit)).Middleware())
	ws.Get("/conversations", websocket.New(NewConversationHandler(logger, engine, opts...).Handle))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "ws://" + ln.Addr().String() + "/ws/conversations"
}

func dial(t *testing.T, url string) *gorilla.Conn {
	t.Helper()
	conn, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func TestConversationHandler_FullTurn(t *testing.T) {
	engine := new(conversationMocks.MockEngine)
	engine.On("Start", mock.Anything).Return(&conversation.Reply{
		SessionID: "s-1", State: "CHOOSING", Replies: []string{"hello"},
	}, nil)
	engine.On("Handle", mock.Anything, "s-1", "tasting notes").Return(&conversation.Reply{
		SessionID: "s-1", State: "TASTE", Replies: []string{"tell me"},
	}, nil)
	engine.On("Handle", mock.Anything, "s-1", "Done").Return(&conversation.Reply{
		SessionID: "s-1", State: "CHOOSING", Replies: []string{"bye"}, Ended: true,
	}, nil)

	conn := dial(t, startServer(t, engine, 4))

	var greeting conversation.Reply
	require.NoError(t, conn.ReadJSON(&greeting))
	assert.Equal(t, "s-1", greeting.SessionID)
	assert.Equal(t, []string{"hello"}, greeting.Replies)

	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("tasting notes")))
	var turn conversation.Reply
	require.NoError(t, conn.ReadJSON(&turn))
	assert.Equal(t, "TASTE", turn.State)

	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("Done")))
	var done conversation.Reply
	require.NoError(t, conn.ReadJSON(&done))
	assert.True(t, done.Ended)

	_, _, err := conn.ReadMessage()
	assert.True(t, gorilla.IsCloseError(err, gorilla.CloseNormalClosure))
	engine.AssertNotCalled(t, "End", mock.Anything, mock.Anything)
}

func TestConversationHandler_TurnErrorKeepsConnection(t *testing.T) {
	engine := new(conversationMocks.MockEngine)
	engine.On("Start", mock.Anything).Return(&conversation.Reply{SessionID: "s-2", State: "CHOOSING"}, nil)
	engine.On("Handle", mock.Anything, "s-2", "Heat").Return(nil, errors.New("tmdb: timeout")).Once()
	engine.On("Handle", mock.Anything, "s-2", "Heat").Return(&conversation.Reply{SessionID: "s-2", State: "FOLLOWUP"}, nil)
	engine.On("End", mock.Anything, "s-2").Return(nil).Maybe()

	conn := dial(t, startServer(t, engine, 4))
	var greeting conversation.Reply
	require.NoError(t, conn.ReadJSON(&greeting))

	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("Heat")))
	var failure infraWebsocket.ErrorFrame
	require.NoError(t, conn.ReadJSON(&failure))
	assert.Equal(t, "s-2", failure.SessionID)
	assert.Contains(t, failure.Error, "timeout")

	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("Heat")))
	var turn conversation.Reply
	require.NoError(t, conn.ReadJSON(&turn))
	assert.Equal(t, "FOLLOWUP", turn.State)
}

func TestConversationHandler_SlowTurnKeepsNextRead(t *testing.T) {
	engine := new(conversationMocks.MockEngine)
	engine.On("Start", mock.Anything).Return(&conversation.Reply{SessionID: "s-4", State: "CHOOSING"}, nil)
	engine.On("Handle", mock.Anything, "s-4", "Jaws").
		Return(&conversation.Reply{SessionID: "s-4", State: "MOVIE"}, nil).
		After(600 * time.Millisecond).
		Once()
	engine.On("Handle", mock.Anything, "s-4", "yes").
		Return(&conversation.Reply{SessionID: "s-4", State: "FOLLOWUP"}, nil).
		Once()
	engine.On("End", mock.Anything, "s-4").Return(nil).Maybe()

	conn := dial(t, startServer(t, engine, 4, WithKeepAlive(time.Minute, 300*time.Millisecond)))
	var greeting conversation.Reply
	require.NoError(t, conn.ReadJSON(&greeting))

	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("Jaws")))
	var slow conversation.Reply
	require.NoError(t, conn.ReadJSON(&slow))
	assert.Equal(t, "MOVIE", slow.State)

	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("yes")))
	var next conversation.Reply
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, "FOLLOWUP", next.State)
	engine.AssertExpectations(t)
}

func TestConversationHandler_ClientCloseEndsSession(t *testing.T) {
	ended := make(chan struct{})
	engine := new(conversationMocks.MockEngine)
	engine.On("Start", mock.Anything).Return(&conversation.Reply{SessionID: "s-3", State: "CHOOSING"}, nil)
	engine.On("End", mock.Anything, "s-3").Return(nil).Run(func(mock.Arguments) { close(ended) })

	conn := dial(t, startServer(t, engine, 4))
	var greeting conversation.Reply
	require.NoError(t, conn.ReadJSON(&greeting))

	msg := gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, "")
	require.NoError(t, conn.WriteControl(gorilla.CloseMessage, msg, time.Now().Add(time.Second)))

	select {
	case <-ended:
	case <-time.After(5 * time.Second):
		t.Fatal("session was not ended after the client closed")
	}
}

func TestConversationHandler_ConnectionLimit(t *testing.T) {
	engine := new(conversationMocks.MockEngine)
	engine.On("Start", mock.Anything).Return(&conversation.Reply{SessionID: "s-4", State: "CHOOSING"}, nil)
	engine.On("End", mock.Anything, "s-4").Return(nil).Maybe()

	url := startServer(t, engine, 1)
	first := dial(t, url)
	var greeting conversation.Reply
	require.NoError(t, first.ReadJSON(&greeting))

	_, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
