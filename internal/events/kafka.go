package events

import (
	"context"
	"encoding/json"
	"fmt"

	"dailydigest/internal/models"

	"github.com/IBM/sarama"
)

// Publisher receives every batch the emitter stores.
type Publisher interface {
	Publish(ctx context.Context, evts []models.Event) error
}

// KafkaPublisher mirrors audit events onto a Kafka topic, keyed by target id.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return NewKafkaPublisherWithProducer(producer, topic), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (k *KafkaPublisher) Publish(_ context.Context, evts []models.Event) error {
	msgs := make([]*sarama.ProducerMessage, 0, len(evts))
	for _, evt := range evts {
		payload, err := json.Marshal(evt)
		if err != nil {
			return err
		}

		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: k.topic,
			Key:   sarama.StringEncoder(evt.TargetID),
			Value: sarama.ByteEncoder(payload),
			Headers: []sarama.RecordHeader{
				{Key: []byte("action"), Value: []byte(evt.Action)},
			},
		})
	}

	return k.producer.SendMessages(msgs)
}

func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}
