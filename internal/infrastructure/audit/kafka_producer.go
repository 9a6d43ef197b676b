// Package audit implements the AuditService contract. Policy decisions go
// to Kafka when a broker is configured and to the database otherwise.
package audit

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/grc/internal/config"
	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/service"
	"github.com/turtacn/grc/pkg/logger"
)

// KafkaProducer is a Kafka-backed implementation of the AuditService.
type KafkaProducer struct {
	writer *kafka.Writer
	logger logger.Logger
}

// NewKafkaProducer creates a new KafkaProducer for the audit topic.
func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) (service.AuditService, error) {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.AuditTopic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer: writer,
		logger: log.WithComponent("audit_kafka"),
	}, nil
}

// LogEvent sends an audit event to the Kafka topic. Events for the same
// resource share a key so consumers see them in order.
func (p *KafkaProducer) LogEvent(ctx context.Context, event models.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "failed to marshal audit event", err)
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(string(event.ResourceType) + ":" + event.ResourceID),
		Value: payload,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to write audit event to kafka", err)
	}
	return err
}

// Close closes the underlying Kafka writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
