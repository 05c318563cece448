// Package producers publishes recommendation records to Kafka.
package producers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"github.com/chrisdamba/regionrank/internal/logger"
	"github.com/chrisdamba/regionrank/internal/models"
)

var ErrProducerNotInitialized = errors.New("sarama producer is not initialized")

type SaramaProducer struct {
	producer sarama.SyncProducer
	log      logger.Logger
}

// NewSaramaConfig returns the producer settings used for every broker
// connection.
func NewSaramaConfig(cfg models.KafkaConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	if cfg.SessionTimeoutMs > 0 {
		saramaConfig.Consumer.Group.Session.Timeout = time.Duration(cfg.SessionTimeoutMs) * time.Millisecond
	} else {
		saramaConfig.Consumer.Group.Session.Timeout = 45 * time.Second
	}
	return saramaConfig
}

func NewSaramaProducer(cfg models.KafkaConfig, log logger.Logger) (*SaramaProducer, error) {
	brokerList := brokers(cfg.BrokerList)
	if len(brokerList) == 0 {
		return nil, fmt.Errorf("kafka.broker_list is empty")
	}

	producer, err := sarama.NewSyncProducer(brokerList, NewSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log.Info("sarama producer created", logger.Strings("brokers", brokerList))
	return NewSaramaProducerFromClient(producer, log), nil
}

// NewSaramaProducerFromClient wraps an existing producer.
func NewSaramaProducerFromClient(producer sarama.SyncProducer, log logger.Logger) *SaramaProducer {
	return &SaramaProducer{producer: producer, log: log}
}

func brokers(list string) []string {
	var out []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (s *SaramaProducer) WriteMessage(topic string, msg []byte) error {
	if s.producer == nil {
		return ErrProducerNotInitialized
	}

	partition, offset, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		s.log.Error("failed to send message", logger.String("topic", topic), logger.Error(err))
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}

	s.log.Debug("message delivered",
		logger.String("topic", topic),
		logger.Int("partition", int(partition)),
		logger.Any("offset", offset),
	)
	return nil
}

func (s *SaramaProducer) Close() error {
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}
