package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPNotifier publishes notifications to a durable queue; a separate mail
// worker is expected to consume it.
type AMQPNotifier struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPNotifier(url, queue string) (*AMQPNotifier, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("amqp notifier requires AMQP_URL")
	}
	if strings.TrimSpace(queue) == "" {
		return nil, errors.New("amqp notifier requires AMQP_QUEUE")
	}
	return &AMQPNotifier{url: url, queue: queue}, nil
}

// channel dials lazily and redials after the broker drops the connection.
func (n *AMQPNotifier) channel() (*amqp.Channel, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.ch != nil && !n.ch.IsClosed() {
		return n.ch, nil
	}
	if n.conn == nil || n.conn.IsClosed() {
		conn, err := amqp.Dial(n.url)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		n.conn = conn
	}
	ch, err := n.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(n.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue %s: %w", n.queue, err)
	}
	n.ch = ch
	return ch, nil
}

func (n *AMQPNotifier) Notify(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	ch, err := n.channel()
	if err != nil {
		return err
	}
	return ch.PublishWithContext(
		ctx,
		"",      // default exchange
		n.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         msg.Kind,
		},
	)
}

// Close releases the broker connection.
func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var errs []error
	if n.ch != nil {
		if err := n.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
		n.ch = nil
	}
	if n.conn != nil {
		if err := n.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
		n.conn = nil
	}
	return errors.Join(errs...)
}
