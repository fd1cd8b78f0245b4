package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/pipeline"
	"github.com/xavierca1/leadboard/internal/usecase"
)

// ParamGroupOrder orders the groups of a grouped view by their earliest
// expected close.
const ParamGroupOrder = "groupOrder"

type LeadHandler struct {
	app *usecase.App
}

func NewLeadHandler(app *usecase.App) *LeadHandler {
	return &LeadHandler{app: app}
}

func (h *LeadHandler) view(w http.ResponseWriter, r *http.Request, mode pipeline.GroupMode) {
	q := r.URL.Query()
	opts := pipeline.Options{Mode: mode, GroupOrder: entity.SortOrder(q.Get(ParamGroupOrder))}
	if opts.GroupOrder != "" && opts.GroupOrder != entity.SortAsc && opts.GroupOrder != entity.SortDesc {
		writeErrorResponse(w, http.StatusBadRequest, string(entity.KindInvalidRequest), "groupOrder must be asc or desc")
		return
	}

	res, err := h.app.Leads(r.Context(), entity.FilterFromQuery(q), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// List handles GET /leads.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, pipeline.GroupNone)
}

// ByStatus handles GET /leads/by-status.
func (h *LeadHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, pipeline.GroupByStatus)
}

// ByAgent handles GET /leads/by-agent.
func (h *LeadHandler) ByAgent(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, pipeline.GroupByAgent)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.app.LeadDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in entity.LeadInput
	if !decode(w, r, &in) {
		return
	}
	lead, err := h.app.CreateLead(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in entity.LeadInput
	if !decode(w, r, &in) {
		return
	}
	lead, err := h.app.UpdateLead(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.app.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeadHandler) Comments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.app.Comments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *LeadHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CommentText string `json:"commentText"`
	}
	if !decode(w, r, &in) {
		return
	}
	comment, err := h.app.AddComment(r.Context(), chi.URLParam(r, "id"), in.CommentText)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
