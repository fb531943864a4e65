package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/talentscout/internal/config"
	"github.com/jonathan/talentscout/internal/conversation"
	"github.com/jonathan/talentscout/internal/llm"
	"github.com/jonathan/talentscout/internal/questions"
	"github.com/jonathan/talentscout/internal/session"
)

// fixedClient always returns the same model response.
type fixedClient struct {
	response string
	err      error
}

func (f *fixedClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fixedClient) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fixedClient) Close() error { return nil }

func newTestServer(t *testing.T, client llm.Client) *Server {
	t.Helper()
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	store := session.NewStore(time.Hour, 0)
	t.Cleanup(store.Stop)

	ctrl := conversation.NewController(questions.NewGenerator(client, nil, 0), nil, nil)
	jwtCfg := &config.JWTConfig{Secret: "test-secret", ExpirationHours: 1}

	return New(Config{Port: 8080}, store, ctrl, jwtCfg, zap.NewNop())
}

func (s *Server) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, s *Server) createSessionResponse {
	t.Helper()

	rec := s.do(httptest.NewRequest("POST", "/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func sendMessage(t *testing.T, s *Server, sessionID, token, message string) (*httptest.ResponseRecorder, sendMessageResponse) {
	t.Helper()

	body, err := json.Marshal(sendMessageRequest{Message: message})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", fmt.Sprintf("/sessions/%s/messages", sessionID), bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	rec := s.do(req)
	var resp sendMessageResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func mustParseUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func TestCreateSession(t *testing.T) {
	s := newTestServer(t, &fixedClient{})

	resp := createSession(t, s)

	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, resp.Reply, "full name")
	assert.Equal(t, "collecting", resp.State)
}

func TestSendMessage_AdvancesConversation(t *testing.T) {
	s := newTestServer(t, &fixedClient{})
	created := createSession(t, s)

	rec, resp := sendMessage(t, s, created.SessionID, created.Token, "Ada Lovelace")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, resp.Reply, "email")
	assert.Equal(t, "collecting", resp.State)
	assert.Empty(t, resp.Questions)
}

func TestSendMessage_FullConversation(t *testing.T) {
	s := newTestServer(t, &fixedClient{response: `["What is a goroutine?", "Explain channels.", "How does defer work?"]`})
	created := createSession(t, s)

	answers := []string{
		"Ada Lovelace",
		"ada@example.com",
		"+1 415 555 0100",
		"5",
		"Backend Developer",
		"London",
		"Go, SQL",
	}

	var resp sendMessageResponse
	for _, answer := range answers {
		var rec *httptest.ResponseRecorder
		rec, resp = sendMessage(t, s, created.SessionID, created.Token, answer)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, "complete", resp.State)
	assert.Equal(t, []string{
		"What is a goroutine?",
		"Explain channels.",
		"How does defer work?",
	}, resp.Questions)
	assert.Contains(t, resp.Reply, "1. What is a goroutine?")
}

func TestSendMessage_RequiresToken(t *testing.T) {
	s := newTestServer(t, &fixedClient{})
	created := createSession(t, s)

	body := bytes.NewReader([]byte(`{"message": "hi"}`))
	req := httptest.NewRequest("POST", fmt.Sprintf("/sessions/%s/messages", created.SessionID), body)

	rec := s.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendMessage_TokenBoundToSession(t *testing.T) {
	s := newTestServer(t, &fixedClient{})
	first := createSession(t, s)
	second := createSession(t, s)

	// First session's token must not work against the second session.
	rec, _ := sendMessage(t, s, second.SessionID, first.Token, "hi")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSendMessage_InvalidSessionID(t *testing.T) {
	s := newTestServer(t, &fixedClient{})
	created := createSession(t, s)

	rec, _ := sendMessage(t, s, "not-a-uuid", created.Token, "hi")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessage_UnknownSession(t *testing.T) {
	s := newTestServer(t, &fixedClient{})
	created := createSession(t, s)

	// Expire the session out from under the valid token.
	sessID := mustParseUUID(t, created.SessionID)
	s.store.Delete(sessID)

	rec, _ := sendMessage(t, s, created.SessionID, created.Token, "hi")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessage_InvalidBody(t *testing.T) {
	s := newTestServer(t, &fixedClient{})
	created := createSession(t, s)

	req := httptest.NewRequest("POST", fmt.Sprintf("/sessions/%s/messages", created.SessionID), bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer "+created.Token)

	rec := s.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSession_ReturnsSnapshot(t *testing.T) {
	s := newTestServer(t, &fixedClient{})
	created := createSession(t, s)
	sendMessage(t, s, created.SessionID, created.Token, "Ada Lovelace")

	req := httptest.NewRequest("GET", "/sessions/"+created.SessionID, nil)
	req.Header.Set("Authorization", "Bearer "+created.Token)
	rec := s.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, created.SessionID, resp.SessionID)
	assert.Equal(t, "collecting", resp.State)
	assert.Equal(t, "Ada Lovelace", resp.Profile["name"])
	// Greeting, candidate message, next prompt.
	assert.Len(t, resp.Transcript, 3)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fixedClient{})
	createSession(t, s)

	rec := s.do(httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(1), resp["sessions"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &fixedClient{})

	rec := s.do(httptest.NewRequest("OPTIONS", "/sessions", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
