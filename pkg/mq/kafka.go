// Package mq 提供领域事件发布：Kafka 生产者与仅写日志的发布器
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/wyfcoding/corepnl/pkg/logger"
)

// Publisher 事件发布接口，各上下文的 EventPublisher 端口均可由其满足
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	Close() error
}

// KafkaConfig Kafka 配置
type KafkaConfig struct {
	Brokers      []string
	MaxRetries   int
	RetryBackoff int
}

// KafkaProducer Kafka 生产者
type KafkaProducer struct {
	writer *kafka.Writer
}

// NewProducer 创建 Kafka 生产者
func NewProducer(cfg KafkaConfig) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		Compression:            kafka.Gzip,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            cfg.MaxRetries,
		WriteBackoffMin:        time.Duration(cfg.RetryBackoff) * time.Millisecond,
		WriteBackoffMax:        time.Duration(cfg.RetryBackoff*10) * time.Millisecond,
	}

	logger.Info(context.Background(), "Kafka producer created successfully", "brokers", cfg.Brokers)
	return &KafkaProducer{writer: writer}
}

// Publish 以 JSON 发送单条事件，key 决定分区
func (kp *KafkaProducer) Publish(ctx context.Context, topic string, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := kp.writer.WriteMessages(ctx, msg); err != nil {
		logger.Error(ctx, "Failed to send Kafka message", "topic", topic, "key", key, "error", err)
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}

	logger.Debug(ctx, "Kafka message sent", "topic", topic, "key", key)
	return nil
}

// Close 关闭生产者
func (kp *KafkaProducer) Close() error {
	return kp.writer.Close()
}

// LogPublisher 未配置 broker 时使用，只把事件写入日志
type LogPublisher struct{}

// NewLogPublisher 创建日志发布器
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (LogPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	logger.Info(ctx, "Event published", "topic", topic, "key", key, "payload", string(data))
	return nil
}

func (LogPublisher) Close() error { return nil }

// NewPublisher brokers 非空时返回 Kafka 生产者，否则返回日志发布器
func NewPublisher(cfg KafkaConfig) Publisher {
	if len(cfg.Brokers) == 0 {
		return NewLogPublisher()
	}
	return NewProducer(cfg)
}
