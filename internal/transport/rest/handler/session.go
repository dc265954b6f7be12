package handler

import (
	"codepair/internal/model"
	"codepair/internal/service"
	"codepair/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// SessionHandler handles session lifecycle and listing endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
	querySvc   *service.SessionQueryService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, querySvc *service.SessionQueryService) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
		querySvc:   querySvc,
	}
}

// CreateSessionRequest is the request body for creating a session
type CreateSessionRequest struct {
	Problem    string           `json:"problem"`
	Difficulty model.Difficulty `json:"difficulty"`
}

// JoinSessionResponse is returned after a successful join. ChatWarning is set
// when the seat was claimed but the chat membership add failed; the client
// should re-request chat access.
type JoinSessionResponse struct {
	Session     *model.Session `json:"session"`
	ChatWarning bool           `json:"chatWarning,omitempty"`
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.Create(r.Context(), req.Problem, req.Difficulty, userID, middleware.GetStreamID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*model.Session{"session": session})
}

// Active handles GET /v1/sessions/active
func (h *SessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	views, err := h.querySvc.ListActive(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]*model.SessionView{"sessions": views})
}

// Recent handles GET /v1/sessions/recent
func (h *SessionHandler) Recent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	views, err := h.querySvc.ListRecentForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]*model.SessionView{"sessions": views})
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.querySvc.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.SessionView{"session": view})
}

// Join handles POST /v1/sessions/{id}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	session, chatWarning, err := h.sessionSvc.Join(r.Context(), mux.Vars(r)["id"], userID, middleware.GetStreamID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &JoinSessionResponse{Session: session, ChatWarning: chatWarning})
}

// End handles POST /v1/sessions/{id}/end
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	session, err := h.sessionSvc.End(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.Session{"session": session})
}

// Leave handles POST /v1/sessions/{id}/leave
func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	session, err := h.sessionSvc.Leave(r.Context(), mux.Vars(r)["id"], userID, middleware.GetStreamID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.Session{"session": session})
}
