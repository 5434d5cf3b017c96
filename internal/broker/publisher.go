// internal/broker/publisher.go
//
// AMQP event fan-out.
//
// Context
// -------
// Downstream consumers (analytics, push notifications) subscribe to pin
// changes on a durable topic exchange.  Publisher implements pin.Notifier;
// routing keys are `<prefix>.updated`, `<prefix>.deleted`, and
// `<prefix>.expired`.
//
// Notes
// -----
//   - Notifier calls only marshal the event and enqueue it; one goroutine
//     owns the AMQP channel and does the network I/O, so a broker outage
//     never stalls the request that changed the pin.  When the queue is
//     full the event is dropped and ErrQueueFull returned.
//   - The channel is opened lazily and re-dialled after any publish
//     failure, so a broker restart costs at most the events published while
//     it was down.
//   - Publish and drop errors are counted in
//     trio_broker_publish_errors_total and logged.
//   - pin.updated events carry the S2 cell token of the pin position so
//     consumers can shard by area.
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/yanizio/triomap/internal/geo"
	"github.com/yanizio/triomap/internal/metrics"
	"github.com/yanizio/triomap/internal/pin"
)

// QueueSize bounds events waiting for the broker.
const QueueSize = 256

// ErrQueueFull is returned when an event is dropped.
var ErrQueueFull = errors.New("broker: publish queue full")

// Event is the message body.
type Event struct {
	Type      string    `json:"type"`
	Cell      string    `json:"cell,omitempty"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type outbound struct {
	key string
	msg amqp.Publishing
}

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// dialFunc opens a channel with the exchange declared.  closeConn releases
// the underlying connection.
type dialFunc func() (ch channel, closeConn func() error, err error)

// Publisher is safe for concurrent use.
type Publisher struct {
	exchange string
	prefix   string
	dial     dialFunc
	now      func() time.Time
	log      *zap.Logger

	queue     chan outbound
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu        sync.Mutex // guards ch and closeConn
	ch        channel
	closeConn func() error
}

// New returns a Publisher for url.  The first connection is made eagerly so
// misconfiguration shows at boot.
func New(url, exchange, routingPrefix string) (*Publisher, error) {
	p := newPublisher(exchange, routingPrefix, func() (channel, func() error, error) {
		return dialAMQP(url, exchange)
	}, QueueSize)
	p.mu.Lock()
	err := p.connectLocked()
	p.mu.Unlock()
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	p.log.Info("broker connected", zap.String("exchange", exchange))
	return p, nil
}

// newPublisher starts the send loop.
func newPublisher(exchange, prefix string, dial dialFunc, queueSize int) *Publisher {
	p := &Publisher{
		exchange: exchange,
		prefix:   prefix,
		dial:     dial,
		now:      func() time.Time { return time.Now().UTC() },
		log:      zap.L().Named("broker"),
		queue:    make(chan outbound, queueSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Publisher) run() {
	defer close(p.done)
	for {
		select {
		case <-p.quit:
			return
		case o := <-p.queue:
			if err := p.send(o); err != nil {
				metrics.BrokerPublishErrorsTotal.Inc()
				p.log.Warn("broker publish failed", zap.String("key", o.key), zap.Error(err))
			}
		}
	}
}

func dialAMQP(url, exchange string) (channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return ch, conn.Close, nil
}

func (p *Publisher) connectLocked() error {
	if p.ch != nil {
		return nil
	}
	ch, closeConn, err := p.dial()
	if err != nil {
		return err
	}
	p.ch, p.closeConn = ch, closeConn
	return nil
}

func (p *Publisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.closeConn != nil {
		_ = p.closeConn()
	}
	p.ch, p.closeConn = nil, nil
}

func (p *Publisher) send(o outbound) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return err
	}
	if err := p.ch.Publish(p.exchange, o.key, false, false, o.msg); err != nil {
		p.resetLocked()
		return fmt.Errorf("failed to publish %s: %w", o.key, err)
	}
	return nil
}

// publish marshals the event and hands it to the send loop without
// blocking.
func (p *Publisher) publish(kind, cell string, data any) error {
	body, err := json.Marshal(Event{Type: "pin." + kind, Cell: cell, Data: data, Timestamp: p.now()})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	o := outbound{
		key: p.prefix + "." + kind,
		msg: amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now(),
		},
	}
	select {
	case <-p.quit:
		return errors.New("broker: publisher closed")
	default:
	}
	select {
	case p.queue <- o:
		return nil
	default:
		metrics.BrokerPublishErrorsTotal.Inc()
		return ErrQueueFull
	}
}

/*──────────────────────────── pin.Notifier ────────────────────────────────*/

func (p *Publisher) PinUpdated(_ context.Context, v pin.View) error {
	return p.publish("updated", geo.CellToken(v.Lat, v.Lng, geo.CellLevel), v)
}

func (p *Publisher) PinDeleted(_ context.Context, pinID string) error {
	return p.publish("deleted", "", map[string]string{"id": pinID})
}

func (p *Publisher) PinsExpired(_ context.Context, n int64) error {
	return p.publish("expired", "", map[string]int64{"count": n})
}

// Close stops the send loop and releases the channel and connection.
// Events still queued are discarded.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() { close(p.quit) })
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	p.log.Info("broker closed")
	return nil
}
