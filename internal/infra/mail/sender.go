package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/format"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// LeadMailData feeds the lead templates.
type LeadMailData struct {
	AgentName   string
	LeadName    string
	Status      string
	Priority    string
	TimeToClose string
	Tags        string
	ClosedAt    string
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	dialer Dialer
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// NewEmailSenderWithDialer is used when the SMTP transport is provided by
// the caller.
func NewEmailSenderWithDialer(d Dialer, from string) *EmailSender {
	return &EmailSender{From: from, dialer: d}
}

func leadData(agent entity.Agent, lead entity.Lead) LeadMailData {
	data := LeadMailData{
		AgentName:   agent.Name,
		LeadName:    lead.Name,
		Status:      string(lead.Status),
		Priority:    string(lead.Priority),
		TimeToClose: format.TimeToClose(lead.TimeToClose),
		Tags:        format.Tags(lead.Tags),
	}
	if lead.ClosedAt != nil {
		data.ClosedAt = format.Date(*lead.ClosedAt, false)
	}
	return data
}

func subjectName(lead entity.Lead) string {
	return format.Truncate(lead.Name, format.DefaultTruncate)
}

func (s *EmailSender) SendLeadAssigned(agent entity.Agent, lead entity.Lead) error {
	return s.send(agent.Email, "New lead assigned: "+subjectName(lead), "lead_assigned.html", leadData(agent, lead))
}

func (s *EmailSender) SendLeadClosed(agent entity.Agent, lead entity.Lead) error {
	return s.send(agent.Email, "Lead closed: "+subjectName(lead), "lead_closed.html", leadData(agent, lead))
}

func (s *EmailSender) send(to, subject, tmpl string, data LeadMailData) error {
	if to == "" {
		return fmt.Errorf("send %s: recipient has no email", tmpl)
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}

	m := gomail.NewMessage(gomail.SetEncoding(gomail.Unencoded))
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
