package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"

	r "github.com/sanket-jethava/saleor/internal/repository"
)

type MockRepository struct {
	OutboxEvents     []*r.OutboxEvent
	GetErr           error
	StuckEvents      []*r.OutboxEvent
	GetStuckErr      error
	InsertedPayloads [][]byte
	ProcessedID      int
	ProcessedCount   int
}

func (m *MockRepository) Close() error {
	return nil
}

func (m *MockRepository) RunMigrations(*r.Credentials) error {
	return nil
}

func (m *MockRepository) InsertEvent(_ context.Context, _, _ string, payload []byte) error {
	m.InsertedPayloads = append(m.InsertedPayloads, payload)
	return nil
}

func (m *MockRepository) GetUnprocessedEvents(context.Context, int) ([]*r.OutboxEvent, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if len(m.OutboxEvents) > 0 {
		ev := []*r.OutboxEvent{m.OutboxEvents[0]} // Return first event once
		m.OutboxEvents = m.OutboxEvents[1:]
		return ev, nil
	}
	return nil, nil
}

func (m *MockRepository) GetStuckEvents(context.Context, time.Duration) ([]*r.OutboxEvent, error) {
	if m.GetStuckErr != nil {
		return nil, m.GetStuckErr
	}
	return m.StuckEvents, nil
}

func (m *MockRepository) MarkEventAsProcessed(_ context.Context, id int) error {
	m.ProcessedID = id
	m.ProcessedCount++
	return nil
}

func setupKafka(t *testing.T) (string, func()) {
	ctx := context.Background()

	// Start Kafka container using testcontainers Kafka module
	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers, "broker address should not be empty")

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}

	return brokers[0], cleanup
}

func createTopic(t *testing.T, brokerAddr, topic string) {
	conn, err := kafkaGo.Dial("tcp", brokerAddr)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkaGo.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer controllerConn.Close()

	topicConfigs := []kafkaGo.TopicConfig{{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}}

	err = controllerConn.CreateTopics(topicConfigs...)
	if err != nil {
		t.Logf("topic creation error (may already exist): %v", err)
	}
}

func TestOutboxPoller_PublishesEventsToKafka(t *testing.T) {
	brokerAddr, cleanup := setupKafka(t)
	defer cleanup()

	createTopic(t, brokerAddr, "checkout-events")

	// Give Kafka time to fully initialize the topic
	time.Sleep(5 * time.Second)

	mockRepo := &MockRepository{
		OutboxEvents: []*r.OutboxEvent{
			{
				ID:          1,
				AggregateID: "checkout-123",
				EventType:   r.EventCheckoutLinesSerialized,
				Payload:     json.RawMessage(`[{"id":"Q2hlY2tvdXRMaW5lOjE=","base_price":"10.01","currency":"USD"}]`),
				CreatedAt:   time.Now(),
			},
		},
	}

	writer := &kafkaGo.Writer{
		Addr:         kafkaGo.TCP(brokerAddr),
		Topic:        "checkout-events",
		Balancer:     &kafkaGo.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	defer writer.Close()

	poller := &OutboxPoller{
		eventTick:  1 * time.Second,
		stuckTick:  30 * time.Second,
		stuckAfter: 5 * time.Minute,
		batchSize:  100,
		repo:       mockRepo,
		writer:     writer,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	go poller.Run(ctx)

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:  []string{brokerAddr},
		Topic:    "checkout-events",
		GroupID:  "test-consumer",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)

	assert.Equal(t, "checkout-123", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, r.EventCheckoutLinesSerialized, string(msg.Headers[0].Value))

	var payload []map[string]interface{}
	err = json.Unmarshal(msg.Value, &payload)
	require.NoError(t, err)
	require.Len(t, payload, 1)
	assert.Equal(t, "10.01", payload[0]["base_price"])

	// Verify event was marked as processed
	assert.Equal(t, 1, mockRepo.ProcessedID)
}

func TestProcessUnpublishedEvents_RepoError(t *testing.T) {
	mockRepo := &MockRepository{GetErr: errors.New("db down")}
	poller := NewOutboxPoller(mockRepo)

	// must not panic and must not mark anything processed
	poller.processUnpublishedEvents(context.Background())
	assert.Equal(t, 0, mockRepo.ProcessedCount)
}

func TestReportStuckEvents_RepoError(t *testing.T) {
	mockRepo := &MockRepository{GetStuckErr: errors.New("db down")}
	poller := NewOutboxPoller(mockRepo)

	poller.reportStuckEvents(context.Background())
	assert.Equal(t, 0, mockRepo.ProcessedCount)
}
