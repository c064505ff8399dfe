package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	dialTimeout       = 5 * time.Second
	heartbeat         = 10 * time.Second
	minReconnectDelay = 500 * time.Millisecond
	maxReconnectDelay = 30 * time.Second
)

// ErrUnavailable is returned by Publish while the broker connection is down.
var ErrUnavailable = errors.New("event broker unavailable")

// AMQPPublisher publishes events to a durable topic exchange, routed by
// event type. A lost connection is re-established in the background;
// publishes fail fast with ErrUnavailable until it is back.
type AMQPPublisher struct {
	url         string
	exchange    string
	logger      zerolog.Logger
	dialTimeout time.Duration

	mu           sync.Mutex
	conn         *amqp.Connection
	channel      *amqp.Channel
	reconnecting bool
	closed       bool
	done         chan struct{}
}

// NewAMQPPublisher dials url and declares exchange.
func NewAMQPPublisher(url, exchange string, logger zerolog.Logger) (*AMQPPublisher, error) {
	if url == "" {
		return nil, errors.New("amqp url cannot be empty")
	}
	if exchange == "" {
		return nil, errors.New("exchange name cannot be empty")
	}
	p := newAMQPPublisher(url, exchange, logger)
	conn, ch, err := p.dial()
	if err != nil {
		return nil, err
	}
	p.conn, p.channel = conn, ch
	p.logger.Info().Str("exchange", exchange).Msg("connected to rabbitmq")
	return p, nil
}

func newAMQPPublisher(url, exchange string, logger zerolog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		url:         url,
		exchange:    exchange,
		logger:      logger.With().Str("component", "events").Logger(),
		dialTimeout: dialTimeout,
		done:        make(chan struct{}),
	}
}

// dial opens a connection and channel and declares the exchange. It touches
// no publisher state.
func (p *AMQPPublisher) dial() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Dial:      amqp.DefaultDial(p.dialTimeout),
		Heartbeat: heartbeat,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		p.exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	return conn, ch, nil
}

// Publish sends e on the current channel. p.mu only guards the channel lookup.
func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrUnavailable
	}
	ch := p.channel
	if ch == nil || ch.IsClosed() || p.conn == nil || p.conn.IsClosed() {
		p.reconnectLocked()
		p.mu.Unlock()
		return ErrUnavailable
	}
	p.mu.Unlock()

	err = ch.PublishWithContext(ctx, p.exchange, string(e.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    e.OccurredAt,
		Type:         string(e.Type),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

// reconnectLocked starts the background redial unless one is running.
// p.mu must be held.
func (p *AMQPPublisher) reconnectLocked() {
	if p.reconnecting || p.closed {
		return
	}
	p.reconnecting = true
	p.logger.Warn().Msg("rabbitmq connection lost, reconnecting in background")
	go p.reconnect()
}

func (p *AMQPPublisher) reconnect() {
	delay := minReconnectDelay
	for {
		conn, ch, err := p.dial()

		p.mu.Lock()
		if p.closed {
			p.reconnecting = false
			p.mu.Unlock()
			if err == nil {
				ch.Close()
				conn.Close()
			}
			return
		}
		if err == nil {
			_ = p.closeLocked()
			p.conn, p.channel = conn, ch
			p.reconnecting = false
			p.mu.Unlock()
			p.logger.Info().Str("exchange", p.exchange).Msg("reconnected to rabbitmq")
			return
		}
		p.mu.Unlock()

		p.logger.Warn().Err(err).Dur("retry_in", delay).Msg("rabbitmq reconnect failed")
		select {
		case <-p.done:
			p.mu.Lock()
			p.reconnecting = false
			p.mu.Unlock()
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, maxReconnectDelay)
	}
}

// Close stops reconnecting and releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.done)
	}
	return p.closeLocked()
}

func (p *AMQPPublisher) closeLocked() error {
	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
		p.conn = nil
	}
	return errors.Join(errs...)
}
