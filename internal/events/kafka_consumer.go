package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/viajemos/service-travel/internal/application"
	bookingDomain "github.com/viajemos/service-travel/internal/domain/booking"
	"github.com/viajemos/service-travel/pkg/domain"
	"github.com/viajemos/service-travel/pkg/events"
	"github.com/viajemos/service-travel/pkg/kafka"
)

// PaymentEventConsumer listens to payment-service events and drives the
// booking's payment_status through the lifecycle manager. This is the only
// path by which payment state reaches a booking.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.BookingService
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service *application.BookingService,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.PaymentSucceeded:
		var evt events.PaymentSucceededEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse PaymentSucceededEvent data", zap.Error(err))
			return nil
		}
		return c.applyTransition(ctx, evt.BookingID.String(), evt.BookingID, bookingDomain.PaymentPaid)

	case events.PaymentFailed:
		var evt events.PaymentFailedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse PaymentFailedEvent data", zap.Error(err))
			return nil
		}
		return c.applyTransition(ctx, evt.BookingID.String(), evt.BookingID, bookingDomain.PaymentFailed)

	case events.PaymentRefunded:
		var evt events.PaymentRefundedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse PaymentRefundedEvent data", zap.Error(err))
			return nil
		}
		return c.applyTransition(ctx, evt.BookingID.String(), evt.BookingID, bookingDomain.PaymentRefunded)

	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) applyTransition(ctx context.Context, bookingRef string, bookingID uuid.UUID, target bookingDomain.PaymentStatus) error {
	c.logger.Info("processing payment event",
		zap.String("booking_id", bookingRef),
		zap.String("target_status", string(target)),
	)

	_, err := c.service.TransitionPayment(ctx, bookingID, target)
	if err != nil {
		// A transition the payment graph forbids will never become valid;
		// log it and drop the message instead of redelivering forever.
		var appErr *domain.AppError
		if errors.As(err, &appErr) && appErr.Kind == domain.KindInvalidState {
			c.logger.Error("rejected payment transition, dropping event",
				zap.String("booking_id", bookingRef),
				zap.String("target_status", string(target)),
				zap.Error(err),
			)
			return nil
		}

		c.logger.Error("failed to apply payment transition",
			zap.String("booking_id", bookingRef),
			zap.String("target_status", string(target)),
			zap.Error(err),
		)
		return err
	}
	return nil
}
