package messaging

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// consume binds a server named exclusive queue to the topic exchange, so
// every listening instance gets its own copy of each message.
func consume(ch *amqp.Channel, name string) (<-chan amqp.Delivery, error) {
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, err
	}
	if err := ch.QueueBind(q.Name, name, name, false, nil); err != nil {
		return nil, err
	}
	return ch.Consume(q.Name, "", false, true, false, false, nil)
}

// DeliveryFilter handles one delivery. Returning an error nacks it.
type DeliveryFilter func(amqp.Delivery) error

// channelCloser is the part of *amqp.Channel the listener owns.
type channelCloser interface {
	Close() error
}

// closeOnError closes ch when err is set and returns err.
func closeOnError(ch channelCloser, err error) error {
	if err != nil {
		if closeErr := ch.Close(); closeErr != nil {
			return errors.Join(err, closeErr)
		}
	}
	return err
}

// ListenToTopic consumes the topic in the background until the channel
// closes. It owns ch from here on and closes it when setup fails. Failed
// deliveries are dropped without requeue.
func ListenToTopic(ch *amqp.Channel, logger *zap.Logger, prefix string, topic ChangeTopic, filter DeliveryFilter) error {
	name := ExchangeName(prefix, topic)
	deliveries, err := consume(ch, name)
	if err != nil {
		return closeOnError(ch, fmt.Errorf("consume %s: %w", name, err))
	}
	log := logger.With(zap.String("topic", name))

	go func() {
		defer ch.Close()
		for d := range deliveries {
			handleDelivery(log, d, filter)
		}
		log.Info("topic listener stopped")
	}()
	return nil
}

func handleDelivery(log *zap.Logger, d amqp.Delivery, filter DeliveryFilter) {
	if err := filter(d); err != nil {
		log.Warn("dropping message", zap.String("messageId", d.MessageId), zap.Error(err))
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Warn("nack failed", zap.Error(nackErr))
		}
		return
	}
	if err := d.Ack(false); err != nil {
		log.Warn("ack failed", zap.Error(err))
	}
}
