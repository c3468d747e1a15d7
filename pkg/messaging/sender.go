package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matst80/laser-finder/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the topic exchange, and routing key, for a topic.
func ExchangeName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

// DefineTopic declares the durable topic exchange and a durable queue of the
// same name so messages published before any listener starts are kept.
func DefineTopic(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	name := ExchangeName(prefix, topic)
	if err := ch.ExchangeDeclare(name, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", name, err)
	}
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", name, err)
	}
	return nil
}

func newPublishing(data any) (amqp.Publishing, error) {
	body, err := jsoncompat.Marshal(data)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
	}, nil
}

// SendChange publishes data as JSON on a short lived channel.
func SendChange[V any](ctx context.Context, c *amqp.Connection, prefix string, topic ChangeTopic, data V) error {
	msg, err := newPublishing(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", topic, err)
	}
	ch, err := c.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	name := ExchangeName(prefix, topic)
	return ch.PublishWithContext(ctx, name, name, false, false, msg)
}
