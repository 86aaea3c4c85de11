package events

import (
	"context"
	"sync"
	"time"
)

const (
	TopicUsers  = "user_events"
	TopicRoster = "roster_events"
)

const (
	UserRegistered = "user_registered"
	UserLoggedIn   = "user_logged_in"
	UserDeleted    = "user_deleted"
	MemberCreated  = "member_created"
	MemberUpdated  = "member_updated"
	MemberDeleted  = "member_deleted"
)

type Event struct {
	Type       string    `json:"type"`
	EntityID   uint      `json:"entityId"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func New(typ string, id uint, payload any) Event {
	return Event{Type: typ, EntityID: id, Payload: payload, OccurredAt: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

type Recorded struct {
	Topic string
	Key   string
	Event Event
}

func (r *Recorder) Publish(_ context.Context, topic, key string, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Topic: topic, Key: key, Event: ev})
	return nil
}

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.Event.Type)
	}
	return out
}
