package handlers

import (
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/leadboard/internal/store"
)

// Version is reported by /health. It is overridden at build time.
var Version = "dev"

type HealthHandler struct {
	Store      *store.Store
	RabbitMQ   *amqp091.Connection
	CRMBaseURL string
	MailHost   string
	StartTime  time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
	Collections  map[string]int    `json:"collections"`
}

func NewHealthHandler(st *store.Store, rabbitMQ *amqp091.Connection, crmBaseURL, mailHost string) *HealthHandler {
	return &HealthHandler{
		Store:      st,
		RabbitMQ:   rabbitMQ,
		CRMBaseURL: crmBaseURL,
		MailHost:   mailHost,
		StartTime:  time.Now(),
	}
}

func configured(v string) string {
	if v == "" {
		return "not configured"
	}
	return "configured"
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := map[string]string{
		"crm":  configured(h.CRMBaseURL),
		"smtp": configured(h.MailHost),
	}

	switch {
	case h.RabbitMQ == nil:
		deps["rabbitmq"] = "not configured"
	case h.RabbitMQ.IsClosed():
		deps["rabbitmq"] = "unhealthy: connection closed"
	default:
		deps["rabbitmq"] = "healthy"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "configured" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	resp := HealthResponse{
		Status:       status,
		Version:      Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
		Collections: map[string]int{
			string(store.KindLeads):  len(h.Store.Leads()),
			string(store.KindAgents): len(h.Store.Agents()),
			string(store.KindTags):   len(h.Store.Tags()),
		},
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}
