// Package amqp publishes ledger change events so out-of-process consumers
// (the report worker) can react without polling the database.
package amqp

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key matches the queue name on a direct exchange.
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishEntryChange publishes a change announcement for the given entry.
func (c *Client) PublishEntryChange(ctx context.Context, id string, kind ChangeKind, userID string) error {
	msg := NewEntryChangeMessage(id, kind, userID)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		c.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish entry change: %w", err)
	}

	return nil
}

// Consume delivers queued change messages until ctx is done. Malformed
// messages are rejected without requeue; handler errors requeue once.
func (c *Client) Consume(ctx context.Context, handler func(context.Context, *EntryChangeMessage) error) error {
	deliveries, err := c.channel.Consume(
		c.queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume queue: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			msg, err := EntryChangeMessageFromJSON(d.Body)
			if err != nil {
				_ = d.Nack(false, false)
				continue
			}
			if err := handler(ctx, msg); err != nil {
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
