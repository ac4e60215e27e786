package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/streadway/amqp"

	"sareehouse/internal/models"
)

// CollectionQueue receives cart and wishlist events.
const CollectionQueue = "collection_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *slog.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the collection queue.
func NewClient(cfg Config, log *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("rabbitmq connected", "queue", CollectionQueue)

	return &Client{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

func declareQueue(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		CollectionQueue, // name
		true,            // durable
		false,           // delete when unused
		false,           // exclusive
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", CollectionQueue, err)
	}
	return q, nil
}

// Close closes the RabbitMQ channel and connection.
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
	return errors.Join(errs...)
}

// EncodeEvent renders a collection event as a persistent JSON publishing.
func EncodeEvent(event models.CollectionEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal collection event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Type:         event.Type,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
	}, nil
}

// DecodeEvent parses a delivery body produced by EncodeEvent.
func DecodeEvent(body []byte) (models.CollectionEvent, error) {
	var event models.CollectionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return models.CollectionEvent{}, fmt.Errorf("failed to decode collection event: %w", err)
	}
	return event, nil
}

// PublishCollectionEvent sends event to the collection queue through the default exchange.
func (c *Client) PublishCollectionEvent(_ context.Context, event models.CollectionEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg, err := EncodeEvent(event)
	if err != nil {
		return err
	}

	err = c.channel.Publish(
		"",              // exchange: default exchange
		CollectionQueue, // routing key: the queue name
		false,           // mandatory
		false,           // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// ConsumeCollectionEvents delivers each event on the collection queue to handler
// until the channel closes. A handler error nacks the message without requeueing
// so a poison message cannot loop.
func (c *Client) ConsumeCollectionEvents(handler func(models.CollectionEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareQueue(c.channel)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			c.handleDelivery(msg, handler)
		}
	}()
	return nil
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(models.CollectionEvent) error) {
	event, err := DecodeEvent(msg.Body)
	if err == nil {
		err = handler(event)
	}
	if err != nil {
		c.log.Error("collection event rejected", "delivery_tag", msg.DeliveryTag, "error", err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.log.Error("nack failed", "delivery_tag", msg.DeliveryTag, "error", nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.log.Error("ack failed", "delivery_tag", msg.DeliveryTag, "error", ackErr)
	}
}
