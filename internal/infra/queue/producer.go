package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/leadboard/internal/entity"
)

type EventType string

const (
	LeadCreated EventType = "lead.created"
	LeadUpdated EventType = "lead.updated"
	LeadClosed  EventType = "lead.closed"
	LeadDeleted EventType = "lead.deleted"
)

// LeadEvent announces a lead change accepted by the CRM API. Lead is nil for
// deletions.
type LeadEvent struct {
	Type       EventType    `json:"type"`
	LeadID     string       `json:"leadId"`
	Lead       *entity.Lead `json:"lead,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

func NewLeadEvent(t EventType, id string, lead *entity.Lead) LeadEvent {
	return LeadEvent{Type: t, LeadID: id, Lead: lead, OccurredAt: time.Now().UTC()}
}

// Publisher is satisfied by *amqp.Channel.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Producer struct {
	Ch Publisher
	// AppID tags every message so the publishing instance can skip it.
	AppID string
}

func NewProducer(ch Publisher, appID string) *Producer {
	return &Producer{Ch: ch, AppID: appID}
}

// PublishLeadEvent routes ev by its type onto the leads exchange.
func (p *Producer) PublishLeadEvent(ctx context.Context, ev LeadEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode lead event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		string(ev.Type),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.OccurredAt,
			AppId:        p.AppID,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}
