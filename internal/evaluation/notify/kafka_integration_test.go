//go:build integration

package notify_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Joenyengs/backend/internal/evaluation/models"
	"github.com/Joenyengs/backend/internal/evaluation/notify"
	"github.com/Joenyengs/backend/internal/platform/config"
	"github.com/Joenyengs/backend/internal/platform/kafka"
	id "github.com/Joenyengs/backend/pkg/domain"
	"github.com/Joenyengs/backend/pkg/requestcontext"
	"github.com/Joenyengs/backend/pkg/testutil/containers"
)

const topic = "evaluation.notifications.test"

type KafkaNotifierSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	producer *kgo.Client
}

func TestKafkaNotifierSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaNotifierSuite))
}

func (s *KafkaNotifierSuite) SetupSuite() {
	ctx := context.Background()
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
	producer, err := kafka.New(ctx, config.KafkaConfig{
		Brokers:           s.redpanda.Brokers,
		NotificationTopic: topic,
		ClientID:          "notify-test",
	})
	s.Require().NoError(err)
	s.producer = producer
	s.Require().NoError(kafka.EnsureTopic(ctx, producer, topic, 1, 1))
	s.Require().NoError(kafka.EnsureTopic(ctx, producer, topic, 1, 1), "existing topic is not an error")
}

func (s *KafkaNotifierSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

func (s *KafkaNotifierSuite) TestPublishesNotification() {
	ctx := requestcontext.WithRequestID(context.Background(), "req-42")
	n := notify.NewKafka(s.producer, topic)

	s.Require().NoError(n.Notify(ctx, models.Notification{
		Recipients: []models.Recipient{models.RoleRecipient(id.RoleEvaluator)},
		Message:    "Application ENA2025KXX00001 needs a third evaluation.",
		Link:       "/applications/1",
	}))
	s.Require().NoError(n.Flush(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	pollCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(pollCtx)
	s.Require().Empty(fetches.Errors())

	var records []*kgo.Record
	fetches.EachRecord(func(r *kgo.Record) {
		records = append(records, r)
	})
	s.Require().NotEmpty(records)

	var msg notify.Message
	s.Require().NoError(json.Unmarshal(records[0].Value, &msg))
	s.Equal([]string{"role:evaluateur"}, msg.Recipients)
	s.Equal("req-42", msg.RequestID)
	s.Equal("role:evaluateur", string(records[0].Key))
}
