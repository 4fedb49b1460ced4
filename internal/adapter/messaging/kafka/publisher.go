// Package kafka publishes committed ledger events with franz-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"healcoin-ledger/config"
	"healcoin-ledger/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"
)

const defaultTopic = "ledger_events"

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Ping(ctx context.Context) error
	Close()
}

// Publisher implements ports.EventPublisher. Records are keyed by account id
// so one account's events stay ordered within a partition.
type Publisher struct {
	client  producer
	topic   string
	timeout time.Duration
	log     zerolog.Logger
}

// NewPublisher connects a producer to the configured brokers.
func NewPublisher(cfg config.KafkaConfig, log zerolog.Logger) (*Publisher, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "healcoin-ledger"
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(clientID),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProducerLinger(5*time.Millisecond),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	p := newPublisher(client, cfg.Topic, log)
	log.Info().Strs("brokers", cfg.Brokers).Str("topic", p.topic).Msg("Kafka producer created")
	return p, nil
}

func newPublisher(client producer, topic string, log zerolog.Logger) *Publisher {
	if topic == "" {
		topic = defaultTopic
	}
	return &Publisher{client: client, topic: topic, timeout: 5 * time.Second, log: log}
}

// Publish writes one event and waits for the broker acknowledgement.
func (p *Publisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.AccountID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_id", Value: []byte(event.EventID.String())},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce ledger event: %w", err)
	}
	p.log.Debug().Str("event_id", event.EventID.String()).Str("account_id", event.AccountID).Msg("ledger event published")
	return nil
}

// Ping implements ports.HealthChecker.
func (p *Publisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka health check failed: %w", err)
	}
	return nil
}

// Name implements ports.HealthChecker.
func (p *Publisher) Name() string { return "kafka" }

// Close flushes nothing further and releases the client.
func (p *Publisher) Close() { p.client.Close() }
