package handlers

import (
	"net/http"

	"github.com/xavierca1/leadboard/internal/usecase"
)

type ReportHandler struct {
	app *usecase.App
}

func NewReportHandler(app *usecase.App) *ReportHandler {
	return &ReportHandler{app: app}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.app.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Report(r.Context()))
}

func (h *ReportHandler) LastWeek(w http.ResponseWriter, r *http.Request) {
	leads, err := h.app.LastWeekReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *ReportHandler) Pipeline(w http.ResponseWriter, r *http.Request) {
	p, err := h.app.PipelineReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
