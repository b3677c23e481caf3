package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	amqp "github.com/streadway/amqp"

	"pantherexchange/internal/models"
)

// DefaultQueue is the queue listing events are published to.
const DefaultQueue = "listing_events"

// EventListingCreated is the type carried by messages published after a create.
const EventListingCreated = "listing.created"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	// amqp channels are not safe for concurrent publishing
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// ListingEvent is the JSON body of a listing event message.
type ListingEvent struct {
	Event      string          `json:"event"`
	ListingID  int64           `json:"listing_id"`
	Title      string          `json:"title"`
	Category   models.Category `json:"category"`
	Price      models.Price    `json:"price"`
	Currency   string          `json:"currency"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares the listing queue.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareQueue(ch, cfg.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info().Str("queue", cfg.Queue).Msg("RabbitMQ client connected and queue declared")

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", name, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// NewListingCreatedEvent builds the event published after listing was stored.
func NewListingCreatedEvent(listing models.Listing) ListingEvent {
	return ListingEvent{
		Event:      EventListingCreated,
		ListingID:  listing.ID,
		Title:      listing.Title,
		Category:   listing.Category,
		Price:      listing.Price,
		Currency:   listing.Currency,
		OccurredAt: listing.CreatedAt,
	}
}

func newPublishing(event ListingEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal listing event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Type:         event.Event,
		MessageId:    uuid.NewString(),
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}, nil
}

// PublishListingCreated publishes a listing.created event to the listing queue.
func (c *Client) PublishListingCreated(ctx context.Context, listing models.Listing) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := newPublishing(NewListingCreatedEvent(listing))
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Debug().Str("message_id", msg.MessageId).Int64("listing_id", listing.ID).Msg("Sent listing event")
	return nil
}

// ConsumeListingEvents registers a consumer on the listing queue and hands each
// decoded event to handler. Messages are acked when handler returns nil and
// rejected without requeue when the body cannot be decoded.
func (c *Client) ConsumeListingEvents(handler func(ListingEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Info().Str("queue", c.queue).Msg("Waiting for listing events")

	go func() {
		for msg := range msgs {
			handleDelivery(msg, handler)
		}
	}()

	return nil
}

// acknowledger is the part of amqp.Delivery used to settle a message.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handleDelivery(msg amqp.Delivery, handler func(ListingEvent) error) {
	settle(&msg, msg.Body, msg.DeliveryTag, handler)
}

func settle(ack acknowledger, body []byte, tag uint64, handler func(ListingEvent) error) {
	var event ListingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Warn().Err(err).Uint64("delivery_tag", tag).Msg("Dropping undecodable listing event")
		if nackErr := ack.Nack(false, false); nackErr != nil {
			log.Error().Err(nackErr).Uint64("delivery_tag", tag).Msg("Error nacking message")
		}
		return
	}

	if err := handler(event); err != nil {
		log.Error().Err(err).Uint64("delivery_tag", tag).Msg("Error processing listing event")
		// Requeue so another consumer can retry it.
		if nackErr := ack.Nack(false, true); nackErr != nil {
			log.Error().Err(nackErr).Uint64("delivery_tag", tag).Msg("Error nacking message")
		}
		return
	}

	if ackErr := ack.Ack(false); ackErr != nil {
		log.Error().Err(ackErr).Uint64("delivery_tag", tag).Msg("Error acking message")
	}
}
