package realtime

import (
	"log"
	"sync"
)

// Hub tracks which clients are joined to which trip room and fans frames out
// to every member. Rooms are keyed by trip id.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	onEmpty func(tripID string)
}

func NewHub() *Hub {
	return &Hub{rooms: map[string]map[*Client]struct{}{}}
}

// OnRoomEmpty registers a hook fired after the last member of a room leaves.
// Wired to a force flush so an abandoned trip does not sit in a debounce
// window forever.
func (h *Hub) OnRoomEmpty(fn func(tripID string)) {
	h.onEmpty = fn
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.tripID]
	if !ok {
		room = map[*Client]struct{}{}
		h.rooms[c.tripID] = room
	}
	room[c] = struct{}{}
	size := len(room)
	h.mu.Unlock()

	log.Printf("[WS] join trip_id=%s user=%s room_size=%d", c.tripID, c.user.Email, size)
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.tripID]
	if ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.tripID)
		}
	}
	empty := ok && len(room) == 0
	h.mu.Unlock()

	if !ok {
		return
	}
	log.Printf("[WS] leave trip_id=%s user=%s", c.tripID, c.user.Email)
	if empty && h.onEmpty != nil {
		h.onEmpty(c.tripID)
	}
}

// Broadcast sends a frame to every member of the room, the originator
// included.
func (h *Hub) Broadcast(tripID string, frame []byte) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[tripID]))
	for c := range h.rooms[tripID] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.enqueue(frame)
	}
}

// NotifyStatus relays a scheduler save-status transition to the room. Shaped
// to fit the scheduler's status callback.
func (h *Hub) NotifyStatus(tripID, status, message string) {
	frame, err := encodeEvent(EventSaveStatus, saveStatusEvent{Status: status, Message: message})
	if err != nil {
		log.Printf("[WS] gagal encode status trip_id=%s: %v", tripID, err)
		return
	}
	h.Broadcast(tripID, frame)
}

// RoomSize reports the current member count for a trip room.
func (h *Hub) RoomSize(tripID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[tripID])
}
