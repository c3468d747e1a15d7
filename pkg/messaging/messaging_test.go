package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matst80/laser-finder/pkg/common/jsoncompat"
	"github.com/matst80/laser-finder/pkg/storage"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestTopicNames(t *testing.T) {
	assert.Equal(t, "laser_machines_changed", ExchangeName("laser", MachinesChanged))
	assert.Equal(t, "global_tracking", ExchangeName("global", Tracking))
}

func TestMachinesChangedHandler(t *testing.T) {
	calls := 0
	var result error
	h := MachinesChangedHandler(zaptest.NewLogger(t), time.Second, func(ctx context.Context) (int, error) {
		calls++
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return 3, result
	})

	assert.NoError(t, h(amqp.Delivery{}))
	assert.NoError(t, h(amqp.Delivery{Body: []byte(`{"source":"admin","count":3}`)}))
	assert.Error(t, h(amqp.Delivery{Body: []byte(`not json`)}))
	assert.Equal(t, 2, calls)

	result = storage.ErrSuperseded
	assert.NoError(t, h(amqp.Delivery{}))

	result = errors.New("source down")
	assert.Error(t, h(amqp.Delivery{}))
	assert.Equal(t, 4, calls)
}

type recordingAcker struct {
	acked, nacked int
	requeued      bool
}

func (a *recordingAcker) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *recordingAcker) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked++
	a.requeued = a.requeued || requeue
	return nil
}

func (a *recordingAcker) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func TestHandleDeliveryAcksAndNacks(t *testing.T) {
	acker := &recordingAcker{}
	ok := func(amqp.Delivery) error { return nil }
	fail := func(amqp.Delivery) error { return errors.New("bad message") }

	handleDelivery(zaptest.NewLogger(t), amqp.Delivery{Acknowledger: acker}, ok)
	handleDelivery(zaptest.NewLogger(t), amqp.Delivery{Acknowledger: acker}, fail)

	assert.Equal(t, 1, acker.acked)
	assert.Equal(t, 1, acker.nacked)
	assert.False(t, acker.requeued)
}

func TestNewPublishing(t *testing.T) {
	msg, err := newPublishing(MachinesChangedEvent{Source: "admin", Count: 2})
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.NotEmpty(t, msg.MessageId)

	decoded := MachinesChangedEvent{}
	require.NoError(t, jsoncompat.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "admin", decoded.Source)
	assert.Equal(t, 2, decoded.Count)
}

type countingCloser struct {
	closed int
	err    error
}

func (c *countingCloser) Close() error {
	c.closed++
	return c.err
}

func TestCloseOnError(t *testing.T) {
	ch := &countingCloser{}
	assert.NoError(t, closeOnError(ch, nil))
	assert.Equal(t, 0, ch.closed)

	setupErr := errors.New("consume failed")
	assert.ErrorIs(t, closeOnError(ch, setupErr), setupErr)
	assert.Equal(t, 1, ch.closed)

	ch.err = errors.New("already closed")
	err := closeOnError(ch, setupErr)
	assert.ErrorIs(t, err, setupErr)
	assert.ErrorIs(t, err, ch.err)
	assert.Equal(t, 2, ch.closed)
}
