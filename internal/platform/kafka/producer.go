// Package kafka wraps the franz-go client behind the small producing surface
// this service needs.
package kafka

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer publishes records to Kafka. It is safe for concurrent use.
type Producer struct {
	client *kgo.Client
}

// NewProducer connects a producing client to the given brokers.
func NewProducer(brokers []string) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, err
	}
	return &Producer{client: client}, nil
}

// ProduceAsync hands a record to the client and returns immediately. The
// outcome is reported through onDone on the client's callback goroutine;
// onDone may be nil when no one cares.
func (p *Producer) ProduceAsync(ctx context.Context, topic string, key, value []byte, onDone func(error)) {
	record := &kgo.Record{Topic: topic, Key: key, Value: value}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if onDone != nil {
			onDone(err)
		}
	})
}

// Flush blocks until buffered records are delivered or ctx expires.
func (p *Producer) Flush(ctx context.Context) error {
	return p.client.Flush(ctx)
}

// Close flushes and releases the underlying client.
func (p *Producer) Close() {
	p.client.Close()
}
