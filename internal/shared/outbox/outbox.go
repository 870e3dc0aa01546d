package outbox

import "sync"

const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

// MaxRetries is how many publish attempts a message gets before it is parked
// as failed.
const MaxRetries = 5

// Message is an outbox row recorded alongside the state change that produced
// it. The relay reads pending rows and publishes them to the bus.
type Message struct {
	ID         string
	Topic      string
	EventType  string
	Payload    []byte
	Status     string
	RetryCount int
}

// Queue is the in-memory outbox used by the in-process wiring. The postgres
// deployment swaps in a table-backed queue behind the same methods.
type Queue struct {
	mu       sync.Mutex
	messages []Message
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Append(msg Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if msg.Status == "" {
		msg.Status = StatusPending
	}
	q.messages = append(q.messages, msg)
}

// Pending returns a snapshot of messages still waiting to be published.
func (q *Queue) Pending() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Message, 0)
	for _, msg := range q.messages {
		if msg.Status == StatusPending {
			out = append(out, msg)
		}
	}
	return out
}

func (q *Queue) MarkPublished(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.messages {
		if q.messages[i].ID == id {
			q.messages[i].Status = StatusPublished
			return
		}
	}
}

// MarkAttemptFailed bumps the retry counter and parks the message as failed
// once it exhausts its attempts.
func (q *Queue) MarkAttemptFailed(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.messages {
		if q.messages[i].ID != id {
			continue
		}
		q.messages[i].RetryCount++
		if q.messages[i].RetryCount >= MaxRetries {
			q.messages[i].Status = StatusFailed
		}
		return
	}
}
