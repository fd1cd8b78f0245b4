package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/leadboard/internal/logger"
)

// Handler reacts to one decoded lead event.
type Handler interface {
	HandleLeadEvent(ctx context.Context, ev LeadEvent) error
}

// Consumer is satisfied by *amqp.Channel.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Handler Handler
	// Self is this instance's AppID. Events it published are acked unhandled.
	Self string
	log  logger.Logger
}

func NewWorker(ch Consumer, h Handler, self string, log logger.Logger) *Worker {
	return &Worker{Channel: ch, Handler: h, Self: self, log: log}
}

// Start consumes queueName until ctx is done or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer on %s: %w", queueName, err)
	}

	w.log.Info("lead event worker started", logger.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			w.log.Info("lead event worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.deliver(ctx, d)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, d amqp.Delivery) {
	if w.Self != "" && d.AppId == w.Self {
		d.Ack(false)
		return
	}

	var ev LeadEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		w.log.Warn("malformed lead event", logger.Error(err))
		d.Nack(false, false)
		return
	}

	if err := w.Handler.HandleLeadEvent(ctx, ev); err != nil {
		w.log.Warn("lead event failed",
			logger.String("type", string(ev.Type)),
			logger.String("lead_id", ev.LeadID),
			logger.Error(err),
		)
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}
