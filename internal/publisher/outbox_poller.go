package publisher

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	r "github.com/sanket-jethava/saleor/internal/repository"
)

type OutboxPoller struct {
	eventTick  time.Duration
	stuckTick  time.Duration
	stuckAfter time.Duration
	batchSize  int
	repo       r.RepoInterface
	writer     *kafka.Writer
}

func NewOutboxPoller(repo r.RepoInterface, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "checkout-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{
		eventTick:  time.Second,
		stuckTick:  time.Second * 30,
		stuckAfter: time.Minute * 5,
		batchSize:  100,
		repo:       repo,
		writer:     w,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	stuckTicker := time.NewTicker(p.stuckTick)
	defer eventTicker.Stop()
	defer stuckTicker.Stop()
	for {
		select {
		case <-eventTicker.C:
			p.processUnpublishedEvents(ctx)
		case <-stuckTicker.C:
			p.reportStuckEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, p.batchSize)
	if err != nil {
		log.Printf("failed to fetch events %v", err)
		return
	}

	for _, event := range events {
		errPublish := p.publishToKafka(ctx, event)
		if errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		errMark := p.repo.MarkEventAsProcessed(ctx, event.ID)
		if errMark != nil {
			log.Printf("failed to mark event as processed id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}

// reportStuckEvents surfaces deliveries that keep failing; the regular drain
// retries them on every tick, so this loop only logs.
func (p *OutboxPoller) reportStuckEvents(ctx context.Context) {
	events, err := p.repo.GetStuckEvents(ctx, p.stuckAfter)
	if err != nil {
		log.Printf("failed to get stuck events: %v", err)
		return
	}
	for _, event := range events {
		log.Printf("event id = %v for checkout %v stuck unpublished since %v", event.ID, event.AggregateID, event.CreatedAt)
	}
}

func (p *OutboxPoller) publishToKafka(ctx context.Context, event *r.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // checkout id for ordering
		Value: event.Payload,             // already JSON from the database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}
