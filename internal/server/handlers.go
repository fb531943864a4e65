package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talentscout/internal/server/middleware"
	"github.com/jonathan/talentscout/internal/session"
)

// maxMessageBytes caps one chat turn. Screening answers are short; anything
// larger is a client bug or abuse.
const maxMessageBytes = 4 << 10

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	Reply     string `json:"reply"`
	State     string `json:"state"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

type sendMessageResponse struct {
	Reply     string   `json:"reply"`
	State     string   `json:"state"`
	Questions []string `json:"questions,omitempty"`
}

type transcriptEntry struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

type sessionResponse struct {
	SessionID  string            `json:"session_id"`
	CreatedAt  time.Time         `json:"created_at"`
	State      string            `json:"state"`
	Profile    map[string]string `json:"profile"`
	Questions  []string          `json:"questions,omitempty"`
	Transcript []transcriptEntry `json:"transcript"`
}

// handleCreateSession opens a new screening conversation and returns the
// greeting together with the bearer token for subsequent calls.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Create()

	token, err := s.jwtService.GenerateToken(sess.ID)
	if err != nil {
		s.log.Error("failed to issue session token", zap.Error(err))
		s.store.Delete(sess.ID)
		s.errorResponse(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	reply := s.controller.Start(sess)

	s.log.Info("session created", zap.String("session_id", sess.ID.String()))
	s.jsonResponse(w, http.StatusCreated, createSessionResponse{
		SessionID: sess.ID.String(),
		Token:     token,
		Reply:     reply,
		State:     string(session.StateCollecting),
	})
}

// handleSendMessage processes one candidate message for the session in the
// URL. The token must belong to that same session.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxMessageBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply := s.controller.HandleMessage(r.Context(), sess, req.Message)

	resp := sendMessageResponse{Reply: reply}
	sess.Lock()
	resp.State = string(sess.State)
	if sess.State == session.StateComplete {
		resp.Questions = append([]string(nil), sess.Questions...)
	}
	sess.Unlock()

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetSession returns the current snapshot of a session: collected
// profile, transcript, and questions once generated.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.authorizedSession(w, r)
	if !ok {
		return
	}

	sess.Lock()
	resp := sessionResponse{
		SessionID: sess.ID.String(),
		CreatedAt: sess.CreatedAt,
		State:     string(sess.State),
		Profile:   make(map[string]string, len(sess.Profile)),
		Questions: append([]string(nil), sess.Questions...),
	}
	for k, v := range sess.Profile {
		resp.Profile[k] = v
	}
	resp.Transcript = make([]transcriptEntry, 0, len(sess.Transcript))
	for _, e := range sess.Transcript {
		resp.Transcript = append(resp.Transcript, transcriptEntry{
			Speaker: string(e.Speaker),
			Text:    e.Text,
			At:      e.At,
		})
	}
	sess.Unlock()

	s.jsonResponse(w, http.StatusOK, resp)
}

// authorizedSession resolves the {id} path parameter, checks it against the
// token's session claim, and loads the session. On failure it writes the
// error response and returns ok=false.
func (s *Server) authorizedSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid session ID")
		return nil, false
	}

	tokenID, err := middleware.GetSessionID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	if tokenID != id {
		s.errorResponse(w, http.StatusForbidden, "token does not match session")
		return nil, false
	}

	sess, ok := s.store.Get(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}
