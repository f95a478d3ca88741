package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/usecase/interfaces"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	headerOrigin       = "x-origin"
	contentTypeJSON    = "application/json"
	progressRoutingKey = "progress.updated"
)

// RoutingKey maps a change event to its topic routing key:
// booking.<status> for booking changes, progress.updated for task edits.
func RoutingKey(ev entities.ChangeEvent) string {
	if ev.Type == entities.EventProgressUpdated {
		return progressRoutingKey
	}
	return "booking." + ev.Status.String()
}

// Publisher bridges change notifications to a topic exchange so other
// instances sharing the stores hear about them.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	origin   string
	mu       sync.Mutex
}

var _ interfaces.IEventPublisher = (*Publisher)(nil)

func NewPublisher(url, exchange, origin string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	log.Printf("[amqp][publisher] connected exchange=%s origin=%s", exchange, origin)
	return &Publisher{conn: conn, ch: ch, exchange: exchange, origin: origin}, nil
}

// Publish forwards locally originated events only; events received from the
// exchange or produced by polling are not re-broadcast.
func (p *Publisher) Publish(ctx context.Context, ev entities.ChangeEvent) error {
	if ev.Source != entities.SourceLocal {
		return nil
	}
	msg, err := encode(ev, p.origin)
	if err != nil {
		return err
	}
	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(ev), false, false, msg)
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func encode(ev entities.ChangeEvent, origin string) (amqp.Publishing, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType: contentTypeJSON,
		MessageId:   ev.ID,
		Timestamp:   ev.OccurredAt,
		Headers:     amqp.Table{headerOrigin: origin},
		Body:        b,
	}, nil
}
