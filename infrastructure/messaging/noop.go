// Package messaging holds event publisher implementations that do not
// depend on an external broker.
package messaging

import (
	"context"

	"go.uber.org/zap"

	"gironomall-backend/application/ports"
	"gironomall-backend/domain/events"
)

// NoopPublisher logs events instead of publishing them. Used with the
// in-memory persistence driver in development and tests.
type NoopPublisher struct {
	logger *zap.Logger
}

// NewNoopPublisher creates a NoopPublisher.
func NewNoopPublisher(logger *zap.Logger) ports.EventPublisher {
	return &NoopPublisher{logger: logger}
}

// Publish logs the event.
func (p *NoopPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Debug("Event",
		zap.String("type", event.GetEventType()),
		zap.String("aggregateId", event.GetAggregateID()),
	)
	return nil
}

// PublishBatch logs each event.
func (p *NoopPublisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
