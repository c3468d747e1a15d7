package tracking

import (
	"context"
	"net/http"
	"time"

	"github.com/matst80/laser-finder/pkg/common"
	"github.com/matst80/laser-finder/pkg/messaging"
	"github.com/matst80/laser-finder/pkg/types"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	trackingPrefix = "global"
	publishTimeout = 10 * time.Second
)

// RabbitTracking publishes events to global_tracking. Events are queued and
// published in batches off the request path.
type RabbitTracking struct {
	context    string
	connection *amqp.Connection
	logger     *zap.Logger
	queue      *common.QueueHandler[any]
}

func NewRabbitTracking(url, context string, logger *zap.Logger) (*RabbitTracking, error) {
	ret := &RabbitTracking{
		context: context,
		logger:  logger,
	}
	if err := ret.connect(url); err != nil {
		return nil, err
	}
	ret.queue = common.NewQueueHandler(ret.publish, 50, 2*time.Second)
	return ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, trackingPrefix, messaging.Tracking)
}

func (t *RabbitTracking) publish(events []any) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	for _, e := range events {
		if err := messaging.SendChange(ctx, t.connection, trackingPrefix, messaging.Tracking, e); err != nil {
			t.logger.Warn("error sending tracking event", zap.Error(err))
		}
	}
}

func (t *RabbitTracking) Close() error {
	t.queue.Close()
	return t.connection.Close()
}

func (t *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	t.queue.Add(NewSessionEvent(sessionId, t.context, r))
}

func (t *RabbitTracking) TrackCompare(sessionId string, criteria *types.FilterCriteria, sort types.SortKey, query string, resultLen int, r *http.Request) {
	t.queue.Add(NewCompareEvent(sessionId, t.context, criteria, sort, query, resultLen, r))
}
