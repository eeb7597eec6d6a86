package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NeuralTrust/BarButler/pkg/app/conversation"
	conversationMocks "github.com/NeuralTrust/BarButler/pkg/app/conversation/mocks"
	"github.com/NeuralTrust/BarButler/pkg/app/matching"
	"github.com/NeuralTrust/BarButler/pkg/domain/session"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newConversationApp(engine conversation.Engine) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New()
	app.Post("/api/v1/conversations", NewCreateConversationHandler(logger, engine).Handle)
	app.Post("/api/v1/conversations/:session_id/messages", NewSendMessageHandler(logger, engine).Handle)
	app.Delete("/api/v1/conversations/:session_id", NewDeleteConversationHandler(logger, engine).Handle)
	return app
}

func decodeReply(t *testing.T, body io.Reader) conversation.Reply {
	t.Helper()
	var r conversation.Reply
	require.NoError(t, json.NewDecoder(body).Decode(&r))
	return r
}

func TestCreateConversationHandler_Success(t *testing.T) {
	engine := new(conversationMocks.MockEngine)
	engine.On("Start", mock.Anything).Return(&conversation.Reply{
		SessionID: "s-1",
		State:     "CHOOSING",
		Replies:   []string{"hello"},
	}, nil)

	req := httptest.NewRequest("POST", "/api/v1/conversations", nil)
	resp, err := newConversationApp(engine).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	r := decodeReply(t, resp.Body)
	assert.Equal(t, "s-1", r.SessionID)
	assert.Equal(t, "CHOOSING", r.State)
	assert.Equal(t, []string{"hello"}, r.Replies)
	engine.AssertExpectations(t)
}

func TestCreateConversationHandler_StoreFailure(t *testing.T) {
	engine := new(conversationMocks.MockEngine)
	engine.On("Start", mock.Anything).Return(nil, errors.New("redis down"))

	req := httptest.NewRequest("POST", "/api/v1/conversations", nil)
	resp, err := newConversationApp(engine).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestSendMessageHandler_Success(t *testing.T) {
	engine := new(conversationMocks.MockEngine)
	engine.On("Handle", mock.Anything, "s-1", "movie please").Return(&conversation.Reply{
		SessionID: "s-1",
		State:     "MOVIE",
		Replies:   []string{"which movie?"},
	}, nil)

	req := httptest.NewRequest("POST", "/api/v1/conversations/s-1/messages", strings.NewReader(`{"text":"movie please"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := newConversationApp(engine).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	r := decodeReply(t, resp.Body)
	assert.Equal(t, "MOVIE", r.State)
	assert.False(t, r.Ended)
	engine.AssertExpectations(t)
}

func TestSendMessageHandler_BadRequests(t *testing.T) {
	cases := map[string]string{
		"malformed json": `{"text":`,
		"empty text":     `{"text":"   "}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			engine := new(conversationMocks.MockEngine)

			req := httptest.NewRequest("POST", "/api/v1/conversations/s-1/messages", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := newConversationApp(engine).Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			engine.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSendMessageHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown session", session.ErrSessionNotFound, fiber.StatusNotFound},
		{"matching unavailable", fmt.Errorf("lookup: %w", matching.ErrMatchingUnavailable), fiber.StatusServiceUnavailable},
		{"upstream failure", errors.New("tmdb: timeout"), fiber.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := new(conversationMocks.MockEngine)
			engine.On("Handle", mock.Anything, "s-1", "hi").Return(nil, tc.err)

			req := httptest.NewRequest("POST", "/api/v1/conversations/s-1/messages", strings.NewReader(`{"text":"hi"}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := newConversationApp(engine).Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestDeleteConversationHandler(t *testing.T) {
	engine := new(conversationMocks.MockEngine)
	engine.On("End", mock.Anything, "s-1").Return(nil)
	engine.On("End", mock.Anything, "gone").Return(session.ErrSessionNotFound)
	app := newConversationApp(engine)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/conversations/s-1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/conversations/gone", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	engine.AssertExpectations(t)
}
