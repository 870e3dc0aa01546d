package events

import "time"

// Topics carried on the event bus. Every barter event rides one of these.
const (
	TopicNotifications = "gifted.notifications"
	TopicTransitions   = "gifted.state-transitions"
)

// Envelope is the shared event shape published on the bus. Payload carries
// the event-specific body; the envelope fields stay stable across payload
// versions.
type Envelope struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	SourceService  string    `json:"source_service"`
	OccurredAtUTC  time.Time `json:"occurred_at_utc"`
	CorrelationID  string    `json:"correlation_id"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	PayloadVersion int       `json:"payload_version"`
	Payload        any       `json:"payload"`
}
