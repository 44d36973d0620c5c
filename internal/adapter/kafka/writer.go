package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/usgs-station-index/internal/config"
	"github.com/couchcryptid/usgs-station-index/internal/domain"
	"github.com/couchcryptid/usgs-station-index/internal/observability"
)

// Publisher emits every station of a finished index to a Kafka topic, keyed
// by site_no so compacted topics keep one message per station.
// It implements pipeline.Loader.
type Publisher struct {
	writer  *kafkago.Writer
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, clock: clock, logger: logger, metrics: metrics}
}

// Load publishes records in a single WriteMessages call. All messages share
// one published_at header.
func (p *Publisher) Load(ctx context.Context, records []domain.StationRecord) error {
	if len(records) == 0 {
		return nil
	}
	publishedAt := p.clock.Now().UTC()
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i], publishedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish stations: %w", err)
	}
	p.metrics.RecordsPublished.Add(float64(len(msgs)))
	p.logger.Info("stations published", "topic", p.writer.Topic, "count", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a StationRecord into a Kafka message.
func serializeToMessage(rec domain.StationRecord, publishedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize station %s: %w", rec.SiteNo, err)
	}
	return kafkago.Message{
		Key:   []byte(rec.SiteNo),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "state", Value: []byte(rec.State)},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}
