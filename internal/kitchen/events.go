package kitchen

import (
	"time"

	"shortorder/internal/evaluation"
	"shortorder/internal/models"
)

// EventType names a kitchen event.
type EventType string

const (
	EventOrderAssigned   EventType = "order_assigned"
	EventOrderRevealed   EventType = "order_revealed"
	EventIngredientAdded EventType = "ingredient_added"
	EventOrderServed     EventType = "order_served"
	EventQueueEmpty      EventType = "queue_empty"
)

// Event is published after every state change on the kitchen floor.
type Event struct {
	Type       EventType           `json:"type"`
	Station    int                 `json:"station,omitempty"`
	OrderID    string              `json:"order_id,omitempty"`
	Course     models.Course       `json:"course,omitempty"`
	Ingredient string              `json:"ingredient,omitempty"`
	Verdict    *evaluation.Verdict `json:"verdict,omitempty"`
	Pending    int                 `json:"pending"`
	Timestamp  time.Time           `json:"timestamp"`
}

// EventSink receives kitchen events. Publish must not block.
type EventSink interface {
	Publish(Event)
}

type nopSink struct{}

func (nopSink) Publish(Event) {}
