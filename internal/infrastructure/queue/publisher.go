package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/safeegypt/incident-reporting/internal/core/ports"
)

const (
	defaultDialTimeout = 2 * time.Second
	publishTimeout     = 5 * time.Second
	publishBuffer      = 512
	maxSendAttempts    = 5
	minBackoff         = 250 * time.Millisecond
	maxBackoff         = 10 * time.Second
)

var (
	ErrPublisherClosed = errors.New("event publisher closed")
	ErrPublishBacklog  = errors.New("event publisher backlog full")
)

// PublisherConfig configures the RabbitMQ event publisher.
type PublisherConfig struct {
	URL         string
	Exchange    string
	DialTimeout time.Duration
}

type outgoing struct {
	routingKey string
	msg        amqp.Publishing
}

// Publisher sends incident events as persistent JSON messages to a durable
// topic exchange. Publish only enqueues; a single background loop owns the
// connection and reconnects with backoff after broker failures.
type Publisher struct {
	url         string
	exchange    string
	dialTimeout time.Duration
	log         zerolog.Logger

	queue   chan outgoing
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	// conn and ch are owned by run.
	conn *amqp.Connection
	ch   *amqp.Channel
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewPublisher dials the broker, declares the exchange and starts the send loop.
func NewPublisher(cfg PublisherConfig, log zerolog.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is empty")
	}
	p := newPublisher(cfg, log)
	if err := p.connect(); err != nil {
		return nil, err
	}
	go p.run()
	return p, nil
}

func newPublisher(cfg PublisherConfig, log zerolog.Logger) *Publisher {
	if cfg.Exchange == "" {
		cfg.Exchange = "incidents"
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	return &Publisher{
		url:         cfg.URL,
		exchange:    cfg.Exchange,
		dialTimeout: cfg.DialTimeout,
		log:         log,
		queue:       make(chan outgoing, publishBuffer),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
}

func (p *Publisher) connect() error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.dialTimeout)})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

// Publish marshals payload and queues it for delivery. It never waits on
// the broker.
func (p *Publisher) Publish(_ context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	select {
	case <-p.done:
		return ErrPublisherClosed
	default:
	}

	out := outgoing{
		routingKey: routingKey,
		msg: amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Type:         routingKey,
			Body:         body,
		},
	}
	select {
	case p.queue <- out:
		return nil
	default:
		return ErrPublishBacklog
	}
}

func (p *Publisher) run() {
	defer close(p.stopped)
	defer func() { _ = p.closeConn() }()

	for {
		select {
		case <-p.done:
			p.drain()
			return
		case out := <-p.queue:
			p.deliver(out)
		}
	}
}

// deliver retries a message with exponential backoff and drops it after
// maxSendAttempts or on shutdown.
func (p *Publisher) deliver(out outgoing) {
	backoff := minBackoff
	for attempt := 1; ; attempt++ {
		err := p.send(out)
		if err == nil {
			return
		}
		if attempt >= maxSendAttempts {
			p.log.Error().Err(err).Str("routing_key", out.routingKey).Msg("dropping event after repeated broker failures")
			return
		}
		p.log.Warn().Err(err).Str("routing_key", out.routingKey).Int("attempt", attempt).Msg("event delivery failed, retrying")

		select {
		case <-p.done:
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// drain flushes what is still queued at shutdown and gives up on the rest
// at the first failure.
func (p *Publisher) drain() {
	for {
		select {
		case out := <-p.queue:
			if err := p.send(out); err != nil {
				p.log.Warn().Err(err).Int("lost", len(p.queue)+1).Msg("events lost at shutdown")
				return
			}
		default:
			return
		}
	}
}

func (p *Publisher) send(out outgoing) error {
	if p.ch == nil || p.ch.IsClosed() {
		_ = p.closeConn()
		if err := p.connect(); err != nil {
			return err
		}
		p.log.Info().Str("exchange", p.exchange).Msg("rabbitmq publisher reconnected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.ch.PublishWithContext(ctx, p.exchange, out.routingKey, false, false, out.msg); err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", out.routingKey, err)
	}
	return nil
}

// Close stops the send loop after flushing what is queued, then closes the
// connection.
func (p *Publisher) Close() error {
	p.once.Do(func() { close(p.done) })
	<-p.stopped
	return nil
}

func (p *Publisher) closeConn() error {
	var errs []error
	if p.ch != nil {
		if err := p.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
		p.ch = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
		p.conn = nil
	}
	return errors.Join(errs...)
}

// LogPublisher records events in the log. It stands in when no broker is configured.
type LogPublisher struct {
	log zerolog.Logger
}

var _ ports.EventPublisher = LogPublisher{}

func NewLogPublisher(log zerolog.Logger) LogPublisher {
	return LogPublisher{log: log}
}

func (p LogPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	p.log.Debug().Str("routing_key", routingKey).Msg("event not forwarded, no broker configured")
	return nil
}
