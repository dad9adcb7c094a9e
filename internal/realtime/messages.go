// Package realtime is the websocket gateway for collaborative plan editing:
// it authorizes connections against trip membership, scopes each connection
// to a trip room, feeds accepted commands to the plan engine and fans the
// results back out to every room member.
package realtime

import (
	"encoding/json"

	"tripmate/internal/domain/models"
)

// Client -> server events.
const (
	EventAuth        = "auth"
	EventPing        = "ping"
	EventItemAdded   = "planItemAdded"
	EventItemUpdated = "planItemUpdated"
	EventItemDeleted = "planItemDeleted"
)

// Server -> client events.
const (
	EventPong             = "pong"
	EventOnItemAdded      = "onPlanItemAdded"
	EventOnItemUpdated    = "onPlanItemUpdated"
	EventOnItemDeleted    = "onPlanItemDeleted"
	EventUnauthorizedJoin = "unauthorizedJoin"
	EventSaveStatus       = "planSaveStatus"
	EventCommandError     = "commandError"
)

// Envelope is the wire frame: an event name plus its payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// AuthPayload is the handshake a client must send as its first frame.
type AuthPayload struct {
	TripID string           `json:"tripId"`
	User   *models.TripUser `json:"user"`
}

// ItemCommand carries a mutation from a client. Item is left raw; the engine
// decodes it against the section's concrete shape.
type ItemCommand struct {
	Section string          `json:"section"`
	Item    json.RawMessage `json:"item,omitempty"`
	ItemID  string          `json:"itemId,omitempty"`
}

type itemAddedEvent struct {
	Section string          `json:"section"`
	Item    json.RawMessage `json:"item"`
	AddedBy models.TripUser `json:"addedBy"`
}

type itemUpdatedEvent struct {
	Section   string          `json:"section"`
	Item      json.RawMessage `json:"item"`
	UpdatedBy models.TripUser `json:"updatedBy"`
}

type itemDeletedEvent struct {
	Section   string          `json:"section"`
	ItemID    string          `json:"itemId"`
	DeletedBy models.TripUser `json:"deletedBy"`
}

type unauthorizedJoinEvent struct {
	Reason string `json:"reason"`
}

type saveStatusEvent struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type commandErrorEvent struct {
	Event  string `json:"event"`
	Reason string `json:"reason"`
}

func encodeEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
