package mail_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/leadboard/internal/entity"
	"github.com/xavierca1/leadboard/internal/infra/mail"
)

type captureDialer struct {
	sent []*gomail.Message
	err  error
}

func (c *captureDialer) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return c.err
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendLeadAssigned(t *testing.T) {
	d := &captureDialer{}
	s := mail.NewEmailSenderWithDialer(d, "crm@example.com")
	agent := entity.Agent{ID: "a1", Name: "Ann", Email: "ann@example.com"}
	lead := entity.Lead{ID: "l1", Name: "Acme", Status: entity.StatusNew, Priority: entity.PriorityHigh, TimeToClose: 17}

	require.NoError(t, s.SendLeadAssigned(agent, lead))

	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"ann@example.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"New lead assigned: Acme"}, d.sent[0].GetHeader("Subject"))
	assert.Contains(t, render(t, d.sent[0]), "2 weeks, 3 days")
}

func TestSubjectTruncatesLongLeadNames(t *testing.T) {
	d := &captureDialer{}
	s := mail.NewEmailSenderWithDialer(d, "crm@example.com")
	agent := entity.Agent{ID: "a1", Name: "Ann", Email: "ann@example.com"}
	lead := entity.Lead{ID: "l1", Name: strings.Repeat("x", 80), Status: entity.StatusNew}

	require.NoError(t, s.SendLeadAssigned(agent, lead))

	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"New lead assigned: " + strings.Repeat("x", 50) + "..."}, d.sent[0].GetHeader("Subject"))
	assert.Contains(t, render(t, d.sent[0]), strings.Repeat("x", 80))
}

func TestSendLeadClosedIncludesDate(t *testing.T) {
	d := &captureDialer{}
	s := mail.NewEmailSenderWithDialer(d, "crm@example.com")
	closed := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	err := s.SendLeadClosed(entity.Agent{Name: "Bob", Email: "bob@example.com"}, entity.Lead{Name: "Globex", ClosedAt: &closed})

	require.NoError(t, err)
	assert.Contains(t, render(t, d.sent[0]), "Mar 9, 2024")
}

func TestSendRequiresRecipient(t *testing.T) {
	d := &captureDialer{}
	s := mail.NewEmailSenderWithDialer(d, "crm@example.com")

	assert.Error(t, s.SendLeadAssigned(entity.Agent{Name: "No Mail"}, entity.Lead{Name: "X"}))
	assert.Empty(t, d.sent)
}

func TestSendWrapsSMTPError(t *testing.T) {
	d := &captureDialer{err: errors.New("connection refused")}
	s := mail.NewEmailSenderWithDialer(d, "crm@example.com")

	err := s.SendLeadClosed(entity.Agent{Email: "x@example.com"}, entity.Lead{Name: "X"})

	assert.ErrorContains(t, err, "smtp send")
}
