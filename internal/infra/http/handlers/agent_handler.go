package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/logger"
	"github.com/xavierca1/leadboard/internal/usecase"
)

// AgentHandler serves sales agents, tags and the session's current user.
type AgentHandler struct {
	app *usecase.App
	log logger.Logger
}

func NewAgentHandler(app *usecase.App, log logger.Logger) *AgentHandler {
	return &AgentHandler{app: app, log: log}
}

func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	agents, err := h.app.Store.LoadAgents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in entity.AgentInput
	if !decode(w, r, &in) {
		return
	}
	agent, err := h.app.CreateAgent(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, agent)
}

func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.app.DeleteAgent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tags answers with the held tags when a refresh fails.
func (h *AgentHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.app.Store.LoadTags(r.Context())
	if err != nil {
		h.log.Warn("serving cached tags", logger.Error(err))
		tags = h.app.Store.Tags()
	}
	if tags == nil {
		tags = []entity.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *AgentHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var in entity.TagInput
	if !decode(w, r, &in) {
		return
	}
	tag, err := h.app.CreateTag(r.Context(), in.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entity.TagInput{Name: string(tag)})
}

type SessionResponse struct {
	CurrentUser *entity.Agent `json:"currentUser"`
}

func (h *AgentHandler) Session(w http.ResponseWriter, r *http.Request) {
	var resp SessionResponse
	if user, ok := h.app.CurrentUser(); ok {
		resp.CurrentUser = &user
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AgentHandler) SetSession(w http.ResponseWriter, r *http.Request) {
	user, err := h.app.SetCurrentUser(chi.URLParam(r, "agentId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{CurrentUser: &user})
}
