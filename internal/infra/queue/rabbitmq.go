package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.leads"
	DLQName      = "q.lead-events.dlq"
	DLXName      = "ex.leads.dlx"
	BindingKey   = "lead.#"

	// InstanceQueuePrefix names the per-instance queue; the instance id
	// follows it.
	InstanceQueuePrefix = "q.lead-events."
)

// Declarer is the part of *amqp.Channel the topology needs.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
	// Queue receives every lead event published by any instance.
	Queue      string
	InstanceID string
}

// NewRabbitMQ dials url and declares the lead event topology, including a
// queue owned by this connection alone.
func NewRabbitMQ(url, instanceID string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	queue, err := SetupTopology(ch, instanceID)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare topology: %w", err)
	}

	return &RabbitMQ{Conn: conn, Ch: ch, Queue: queue, InstanceID: instanceID}, nil
}

// SetupTopology declares the durable exchanges and the dead-letter queue,
// then an exclusive auto-delete queue for instanceID bound to every lead
// event. Each instance sees every event; the queue goes away with the
// connection.
func SetupTopology(ch Declarer, instanceID string) (string, error) {
	err := ch.ExchangeDeclare(DLXName, "topic", true, false, false, false, nil)
	if err != nil {
		return "", err
	}

	_, err = ch.QueueDeclare(DLQName, true, false, false, false, nil)
	if err != nil {
		return "", err
	}

	err = ch.QueueBind(DLQName, BindingKey, DLXName, false, nil)
	if err != nil {
		return "", err
	}

	err = ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil)
	if err != nil {
		return "", err
	}

	// rejected events land in the DLQ with their original routing key
	args := amqp.Table{
		"x-dead-letter-exchange": DLXName,
	}

	name := InstanceQueuePrefix + instanceID
	q, err := ch.QueueDeclare(name, false, true, true, false, args)
	if err != nil {
		return "", err
	}

	if err := ch.QueueBind(q.Name, BindingKey, ExchangeName, false, nil); err != nil {
		return "", err
	}
	return q.Name, nil
}

func (r *RabbitMQ) Close() error {
	if r.Ch != nil {
		r.Ch.Close()
	}
	if r.Conn != nil {
		return r.Conn.Close()
	}
	return nil
}
