package kafka

import (
	"github.com/IBM/sarama"

	"github.com/humbelmindai/humblemind-bi-platform/pkg/logger"
)

// Config holds Kafka connection settings
type Config struct {
	Brokers  []string
	Producer ProducerConfig
}

// ProducerConfig holds producer tuning
type ProducerConfig struct {
	MaxMessageBytes  int
	Compression      sarama.CompressionCodec
	RequiredAcks     sarama.RequiredAcks
	FlushMaxMessages int
}

// NewConfig creates a Kafka configuration with production defaults
func NewConfig(brokers []string) *Config {
	return &Config{
		Brokers: brokers,
		Producer: ProducerConfig{
			MaxMessageBytes:  1000000,
			Compression:      sarama.CompressionSnappy,
			RequiredAcks:     sarama.WaitForAll,
			FlushMaxMessages: 100,
		},
	}
}

// NewSaramaConfig translates the Kafka configuration into a sarama config
func NewSaramaConfig(cfg *Config, log *logger.Logger) *sarama.Config {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Version = sarama.V3_3_0_0

	saramaConfig.Producer.MaxMessageBytes = cfg.Producer.MaxMessageBytes
	saramaConfig.Producer.Compression = cfg.Producer.Compression
	saramaConfig.Producer.RequiredAcks = cfg.Producer.RequiredAcks
	saramaConfig.Producer.Flush.MaxMessages = cfg.Producer.FlushMaxMessages
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true

	return saramaConfig
}
