package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// DefaultTopic is the topic imported-question events are published to.
const DefaultTopic = "quiz.imports"

// ImportedEvent is emitted once per successfully imported question so
// downstream services (search indexing, category stats) can react without
// polling the question bank.
type ImportedEvent struct {
	SourceID      string    `json:"source_id"`
	CategorySlugs []string  `json:"category_slugs"`
	AccessTier    string    `json:"access_tier"`
	ImportedAt    time.Time `json:"imported_at"`
}

// PublisherConfig holds Kafka producer configuration.
type PublisherConfig struct {
	Brokers []string
	Topic   string
}

// Publisher sends import events to Kafka.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher creates a Kafka publisher for import events.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{producer: producer, topic: topic}, nil
}

// PublishImported sends one imported-question event, keyed by source id so
// repeated imports of the same question land in the same partition.
func (p *Publisher) PublishImported(event ImportedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.SourceID),
		Value: sarama.ByteEncoder(data),
	})
	return err
}

// Close shuts down the underlying producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
