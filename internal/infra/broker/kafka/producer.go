package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
)

// Producer emits persisted-message audit records. Synchronous, idempotent,
// acks from all replicas; the send path still treats a failed publish as
// best-effort.
type Producer struct {
	sync sarama.SyncProducer
}

// auditConfig applies the audit-stream production settings on top of an
// optional caller-supplied base config. Idempotence requires
// Net.MaxOpenRequests = 1 or sarama rejects the config outright.
func auditConfig(base *sarama.Config) *sarama.Config {
	cfg := base
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.ClientID = "dapur-audit"
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Timeout = 10 * time.Second
	return cfg
}

func NewProducer(brokers []string, cfg *sarama.Config) (*Producer, error) {
	sync, err := sarama.NewSyncProducer(brokers, auditConfig(cfg))
	if err != nil {
		return nil, err
	}
	return &Producer{sync: sync}, nil
}

func (p *Producer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	var hs []sarama.RecordHeader
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(payload),
		Headers: hs,
	}
	_, _, err := p.sync.SendMessage(msg)
	return err
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}
