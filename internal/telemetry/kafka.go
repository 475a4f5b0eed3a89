package telemetry

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// KafkaEmitter publishes loyalty events to a Kafka topic, keyed by user so
// one user's events stay ordered within a partition.
type KafkaEmitter struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

func NewKafkaEmitter(cfg KafkaConfig, log *zap.Logger) (*KafkaEmitter, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, err
	}

	return &KafkaEmitter{
		producer: producer,
		topic:    cfg.Topic,
		log:      log,
	}, nil
}

func (e *KafkaEmitter) Emit(_ context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		e.log.Error("failed to marshal telemetry event", zap.Error(err))
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: e.topic,
		Key:   sarama.StringEncoder(event.UserID),
		Value: sarama.ByteEncoder(payload),
	}

	if _, _, err := e.producer.SendMessage(msg); err != nil {
		e.log.Error("failed to publish telemetry event",
			zap.String("kind", event.Kind),
			zap.Error(err),
		)
	}
}

func (e *KafkaEmitter) Close() error {
	return e.producer.Close()
}
