package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/pkg/logger"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
	"github.com/gocab/gocab/pkg/metrics"
	"github.com/gocab/gocab/pkg/rabbit"
)

const (
	rideExchange = "ride_topic"

	publishTimeout = 5 * time.Second
)

// RideBroker publishes ride lifecycle messages to the ride topic exchange.
// Routing keys follow ride.status.{status} so consumers can bind to a
// single status or the whole stream.
type RideBroker struct {
	client *rabbit.RabbitMQ
	logger logger.Logger
}

func NewRideBroker(ctx context.Context, client *rabbit.RabbitMQ, logger logger.Logger) (*RideBroker, error) {
	err := client.Channel.ExchangeDeclare(
		rideExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", rideExchange, err)
	}

	return &RideBroker{
		client: client,
		logger: logger,
	}, nil
}

// PublishRideStatus emits one message for a committed lifecycle transition.
func (b *RideBroker) PublishRideStatus(ctx context.Context, ride models.Ride) error {
	ctx = wrap.WithAction(ctx, "rabbit.PublishRideStatus")
	ctx = wrap.WithRideID(ctx, ride.ID.String())

	msg := models.RideStatusMessage{
		RideID:    ride.ID,
		Status:    ride.Status.String(),
		RiderID:   ride.RiderID,
		DriverID:  ride.DriverID,
		Fare:      ride.Fare,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("marshal ride status: %w", err))
	}

	if err := b.client.EnsureConnection(ctx); err != nil {
		metrics.RecordBrokerPublish(rideExchange, err)
		return wrap.Error(ctx, fmt.Errorf("ensure broker connection: %w", err))
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	routingKey := "ride.status." + ride.Status.String()
	err = b.client.Channel.PublishWithContext(pubCtx,
		rideExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	metrics.RecordBrokerPublish(rideExchange, err)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("publish %s: %w", routingKey, err))
	}

	b.logger.Debug(ctx, "ride status published", "routing_key", routingKey)
	return nil
}
