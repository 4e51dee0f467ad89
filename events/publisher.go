// Package events publishes order-settlement events to Kafka. Publishing is
// best effort and disabled entirely when KAFKA_BROKERS is unset, so checkout
// never blocks on the broker.
package events

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/AustinQian/EcommerceAPI/config"
)

const EventOrderSettled = "OrderSettled"

type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

type OrderItemPayload struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderSettledPayload struct {
	OrderID       uint               `json:"order_id"`
	UserID        uint               `json:"user_id"`
	FinalTotal    float64            `json:"final_total"`
	CreditsUsed   float64            `json:"credits_used"`
	CreditsEarned float64            `json:"credits_earned"`
	Items         []OrderItemPayload `json:"items"`
}

var writer *kafka.Writer

// Connect sets up the async Kafka writer if brokers are configured.
func Connect() {
	brokers := config.KafkaBrokers()
	if brokers == "" {
		return
	}
	writer = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        config.KafkaOrderTopic(),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
	}
}

// Close flushes pending messages.
func Close() {
	if writer != nil {
		_ = writer.Close()
	}
}

// PublishOrderSettled emits an OrderSettled event keyed by order id.
func PublishOrderSettled(payload OrderSettledPayload) {
	if writer == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("events: marshal order %d: %v", payload.OrderID, err)
		return
	}
	env := Envelope{
		EventID:    uuid.NewString(),
		EventType:  EventOrderSettled,
		OccurredAt: time.Now(),
		Producer:   "ecommerce-api",
		Payload:    raw,
	}
	value, err := json.Marshal(env)
	if err != nil {
		log.Printf("events: marshal envelope: %v", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(uuid.NewString()),
		Value: value,
		Time:  time.Now(),
	}
	if err := writer.WriteMessages(context.Background(), msg); err != nil {
		log.Printf("events: publish order %d: %v", payload.OrderID, err)
	}
}
