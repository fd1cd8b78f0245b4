package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/leadboard/internal/notify"
)

type NotificationHandler struct {
	ch *notify.Channel
}

func NewNotificationHandler(ch *notify.Channel) *NotificationHandler {
	return &NotificationHandler{ch: ch}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ch.List())
}

func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.ch.Dismiss(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) DismissAll(w http.ResponseWriter, r *http.Request) {
	h.ch.DismissAll()
	w.WriteHeader(http.StatusNoContent)
}
