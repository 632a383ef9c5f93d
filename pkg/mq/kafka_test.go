package mq_test

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/wyfcoding/corepnl/pkg/mq"
)

func TestNewPublisher(t *testing.T) {
	c := qt.New(t)

	pub := mq.NewPublisher(mq.KafkaConfig{})
	_, ok := pub.(*mq.LogPublisher)
	c.Assert(ok, qt.IsTrue)
	c.Assert(pub.Publish(context.Background(), "purchase.committed", "demo-user-1", map[string]any{"total": "99"}), qt.IsNil)
	c.Assert(pub.Close(), qt.IsNil)
}

func TestLogPublisherRejectsUnencodableEvent(t *testing.T) {
	c := qt.New(t)

	err := mq.NewLogPublisher().Publish(context.Background(), "t", "k", make(chan int))
	c.Assert(err, qt.ErrorMatches, "failed to marshal event: .*")
}

func TestNewPublisherWithBrokers(t *testing.T) {
	c := qt.New(t)

	pub := mq.NewPublisher(mq.KafkaConfig{Brokers: []string{"localhost:9092"}})
	_, ok := pub.(*mq.KafkaProducer)
	c.Assert(ok, qt.IsTrue)
	c.Assert(pub.Close(), qt.IsNil)
}
