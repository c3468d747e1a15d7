package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matst80/laser-finder/pkg/common/jsoncompat"
	"github.com/matst80/laser-finder/pkg/storage"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RefreshFunc reloads the machine set.
type RefreshFunc func(ctx context.Context) (int, error)

// MachinesChangedHandler returns a delivery filter that refreshes the
// machine set for every machines_changed message. Each refresh gets timeout
// to complete. A refresh superseded by a newer one is not a failure.
func MachinesChangedHandler(logger *zap.Logger, timeout time.Duration, refresh RefreshFunc) DeliveryFilter {
	return func(d amqp.Delivery) error {
		event := MachinesChangedEvent{}
		if len(d.Body) > 0 {
			if err := jsoncompat.Unmarshal(d.Body, &event); err != nil {
				return fmt.Errorf("decode machines changed: %w", err)
			}
		}
		logger.Info("machines changed", zap.String("source", event.Source), zap.Int("count", event.Count))

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		n, err := refresh(ctx)
		if errors.Is(err, storage.ErrSuperseded) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("refresh after change: %w", err)
		}
		logger.Debug("refreshed after change", zap.Int("machines", n))
		return nil
	}
}

// ListenForMachineChanges declares the machines_changed topic and refreshes
// on every message.
func ListenForMachineChanges(conn *amqp.Connection, logger *zap.Logger, prefix string, timeout time.Duration, refresh RefreshFunc) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	if err := DefineTopic(ch, prefix, MachinesChanged); err != nil {
		return closeOnError(ch, err)
	}
	return ListenToTopic(ch, logger, prefix, MachinesChanged, MachinesChangedHandler(logger, timeout, refresh))
}
