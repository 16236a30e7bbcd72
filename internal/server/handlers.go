package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/cf-tutor/internal/model"
	"github.com/sells-group/cf-tutor/internal/monitoring"
)

type problemResponse struct {
	ProblemID     string   `json:"problem_id"`
	Title         string   `json:"title"`
	ContestTitle  string   `json:"contest_title"`
	Statement     string   `json:"statement"`
	TimeLimit     string   `json:"time_limit"`
	MemoryLimit   string   `json:"memory_limit"`
	SampleInputs  []string `json:"sample_inputs"`
	SampleOutputs []string `json:"sample_outputs"`
	Tags          []string `json:"tags"`
	URL           string   `json:"url"`
	HasHints      bool     `json:"has_hints"`
	HasSolutions  bool     `json:"has_solutions"`
	HasTutorials  bool     `json:"has_tutorials"`
	HasEditorials bool     `json:"has_editorials"`
}

func newProblemResponse(p *model.Problem, requestURL string) problemResponse {
	url := p.URL
	if url == "" {
		url = requestURL
	}
	return problemResponse{
		ProblemID:     p.ProblemID,
		Title:         p.ProblemTitle,
		ContestTitle:  p.ContestTitle,
		Statement:     p.Statement,
		TimeLimit:     p.TimeLimit,
		MemoryLimit:   p.MemoryLimit,
		SampleInputs:  p.SampleInputs,
		SampleOutputs: p.SampleOutputs,
		Tags:          p.Tags,
		URL:           url,
		HasHints:      len(p.Hints) > 0,
		HasSolutions:  len(p.Solutions) > 0,
		HasTutorials:  len(p.Tutorials) > 0,
		HasEditorials: len(p.Editorials) > 0,
	}
}

func (s *Server) handleExtractProblem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL *string `json:"url"`
	}
	decode(w, r, &req)
	if req.URL == nil {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	url := strings.TrimSpace(*req.URL)
	if url == "" {
		writeError(w, http.StatusBadRequest, "Valid URL is required")
		return
	}

	p, err := s.extractor.Extract(r.Context(), url)
	if err != nil {
		zap.L().Warn("server: extraction failed", zap.String("url", url), zap.Error(err))
		writeError(w, http.StatusBadRequest, "Failed to extract problem data")
		return
	}
	if p == nil {
		writeError(w, http.StatusInternalServerError, "Problem data not found after extraction")
		return
	}
	writeJSON(w, http.StatusOK, newProblemResponse(p, url))
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProblemID      *string `json:"problem_id"`
		ConversationID string  `json:"conversation_id"`
	}
	decode(w, r, &req)
	if req.ProblemID == nil {
		writeError(w, http.StatusBadRequest, "Problem ID is required")
		return
	}

	p, ok := s.extractor.Search(*req.ProblemID)
	if !ok {
		writeError(w, http.StatusNotFound, "Problem not found")
		return
	}

	sess := s.sessions.Start(p, req.ConversationID)
	welcome := s.tutor.StartSession(r.Context(), p)
	s.record(sess.ID, req.ConversationID, model.ChatMessage{Role: model.RoleAssistant, Message: welcome})

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id":      sess.ID,
		"welcome_message": welcome,
		"problem_title":   p.ProblemTitle,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID      *string `json:"session_id"`
		Message        *string `json:"message"`
		ConversationID string  `json:"conversation_id"`
	}
	decode(w, r, &req)
	if req.SessionID == nil || req.Message == nil {
		writeError(w, http.StatusBadRequest, "Session ID and message are required")
		return
	}

	sess, ok := s.session(w, *req.SessionID)
	if !ok {
		return
	}
	msg := strings.TrimSpace(*req.Message)

	s.record(sess.ID, req.ConversationID, model.ChatMessage{Role: model.RoleUser, Message: msg})
	history, err := s.sessions.Context(sess.ID, req.ConversationID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found or expired")
		return
	}

	reply := s.tutor.Respond(r.Context(), msg, sess.Problem, history, sess.HintsGiven)
	hints := sess.HintsGiven
	if reply.IsHint {
		if n, err := s.sessions.IncrementHints(sess.ID); err == nil {
			hints = n
		}
	}
	s.record(sess.ID, req.ConversationID, model.ChatMessage{
		Role:    model.RoleAssistant,
		Message: reply.Message,
		IsHint:  reply.IsHint,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     reply.Message,
		"is_hint":     reply.IsHint,
		"hints_given": hints,
	})
}

type sessionRequest struct {
	SessionID      *string `json:"session_id"`
	ConversationID string  `json:"conversation_id"`
}

func (s *Server) handleGetHint(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	decode(w, r, &req)
	if req.SessionID == nil {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}
	sess, ok := s.session(w, *req.SessionID)
	if !ok {
		return
	}

	history, _ := s.sessions.Context(sess.ID, req.ConversationID)
	hint := s.tutor.ProgressiveHint(r.Context(), sess.Problem, sess.HintsGiven, history)

	number, err := s.sessions.IncrementHints(sess.ID)
	if err != nil {
		number = sess.HintsGiven + 1
	}
	s.record(sess.ID, req.ConversationID, model.ChatMessage{
		Role:    model.RoleAssistant,
		Message: hint.Message,
		IsHint:  true,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"hint":                 hint.Message,
		"hint_number":          number,
		"more_hints_available": hint.MoreHintsAvailable,
	})
}

func (s *Server) handleGetSolution(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	decode(w, r, &req)
	if req.SessionID == nil {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}
	sess, ok := s.session(w, *req.SessionID)
	if !ok {
		return
	}

	history, _ := s.sessions.Context(sess.ID, req.ConversationID)
	sol := s.tutor.CompleteSolution(r.Context(), sess.Problem, history)
	s.record(sess.ID, req.ConversationID, model.ChatMessage{
		Role:       model.RoleAssistant,
		Message:    sol.Message,
		IsSolution: true,
	})

	writeJSON(w, http.StatusOK, sol)
}

func (s *Server) handleAnalyzeCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID      *string `json:"session_id"`
		Code           *string `json:"code"`
		ConversationID string  `json:"conversation_id"`
	}
	decode(w, r, &req)
	if req.SessionID == nil || req.Code == nil || strings.TrimSpace(*req.Code) == "" {
		writeError(w, http.StatusBadRequest, "Session ID and code are required")
		return
	}
	sess, ok := s.session(w, *req.SessionID)
	if !ok {
		return
	}

	feedback := s.tutor.AnalyzeCode(r.Context(), *req.Code, sess.Problem)
	s.record(sess.ID, req.ConversationID, model.ChatMessage{Role: model.RoleUser, Message: *req.Code})
	s.record(sess.ID, req.ConversationID, model.ChatMessage{Role: model.RoleAssistant, Message: feedback})

	writeJSON(w, http.StatusOK, map[string]string{"feedback": feedback})
}

func (s *Server) handleListProblems(w http.ResponseWriter, _ *http.Request) {
	list := s.extractor.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"problems": list,
		"count":    len(list),
	})
}

func (s *Server) handleGetProblem(w http.ResponseWriter, r *http.Request) {
	p, ok := s.extractor.Search(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Problem not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleConversationHistory(w http.ResponseWriter, r *http.Request) {
	c, err := s.sessions.Conversation(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":           sess.ID,
		"problem_id":           sess.ProblemID,
		"conversation_history": sess.History,
		"hints_given":          sess.HintsGiven,
		"created_at":           sess.CreatedAt,
	})
}

type healthResponse struct {
	Status string `json:"status"`
	*monitoring.Snapshot
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	var snap *monitoring.Snapshot
	if s.collector != nil {
		snap = s.collector.Collect()
	} else {
		snap = &monitoring.Snapshot{}
		snap.Sessions, snap.Conversations = s.sessions.Counts()
	}
	if snap.CollectedAt.IsZero() {
		snap.CollectedAt = s.now().UTC()
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Snapshot: snap})
}

// session loads a session or writes the 404 response.
func (s *Server) session(w http.ResponseWriter, id string) (model.Session, bool) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found or expired")
		return model.Session{}, false
	}
	return sess, true
}

func (s *Server) record(sessionID, conversationID string, msg model.ChatMessage) {
	msg.Timestamp = s.now()
	if err := s.sessions.AppendMessage(sessionID, conversationID, msg); err != nil {
		zap.L().Warn("server: record message", zap.String("session_id", sessionID), zap.Error(err))
	}
}
