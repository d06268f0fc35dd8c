package messaging

import (
	"encoding/json"
	"time"
)

// Envelope is the wire format of every message on the quote_events topic.
// The routing key identifies the event type (topic-exchange style); the
// message id lets consumers de-duplicate under at-least-once delivery.
type Envelope struct {
	ID          string          `json:"id"`
	RoutingKey  string          `json:"routingKey"`
	PublishedAt time.Time       `json:"publishedAt"`
	Payload     json.RawMessage `json:"payload"`
}

// headerRoutingKey duplicates the routing key as a Kafka message header so
// consumers can filter without unmarshalling the envelope
const headerRoutingKey = "routing_key"
