package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"valet_manager/internal/domain/entities"
	"valet_manager/internal/usecase/interfaces"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultBindings subscribes to every booking status and progress update.
var DefaultBindings = []string{"booking.*", progressRoutingKey}

// Consumer receives change notifications published by other instances and
// replays them on the local bus.
type Consumer struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	queue  string
	origin string
}

func NewConsumer(url, exchange, queue, origin string, keys []string) (*Consumer, error) {
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
	// An empty queue name gets a server-named exclusive queue per instance.
	durable, exclusive := queue != "", queue == ""
	q, err := ch.QueueDeclare(queue, durable, !durable, exclusive, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	for _, rk := range keys {
		if err := ch.QueueBind(q.Name, rk, exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("bind %s: %w", rk, err)
		}
	}
	log.Printf("[amqp][consumer] bound queue=%s exchange=%s keys=%v", q.Name, exchange, keys)
	return &Consumer{conn: conn, ch: ch, queue: q.Name, origin: origin}, nil
}

// Forward replays deliveries on sink until ctx is done or the channel closes.
func (c *Consumer) Forward(ctx context.Context, sink interfaces.IEventPublisher) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			ev, keep, err := decode(d.Body, d.Headers, c.origin)
			if err != nil {
				log.Printf("[amqp][consumer][warn] dropping malformed message id=%s err=%v", d.MessageId, err)
				_ = d.Nack(false, false)
				continue
			}
			if keep {
				if err := sink.Publish(ctx, ev); err != nil {
					log.Printf("[amqp][consumer][warn] local replay failed booking_id=%s err=%v", ev.BookingID, err)
				}
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// decode parses a delivery. keep is false for messages this instance sent.
func decode(body []byte, headers amqp.Table, self string) (entities.ChangeEvent, bool, error) {
	if origin, _ := headers[headerOrigin].(string); origin != "" && origin == self {
		return entities.ChangeEvent{}, false, nil
	}
	var ev entities.ChangeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return entities.ChangeEvent{}, false, err
	}
	if ev.BookingID == "" {
		return entities.ChangeEvent{}, false, fmt.Errorf("missing bookingId")
	}
	ev.Source = entities.SourceRemote
	return ev, true, nil
}
