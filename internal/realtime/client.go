package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"tripmate/internal/domain/models"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 45 * time.Second
	maxMessageSize = 64 * 1024
	sendBufferSize = 32
)

// Client is one admitted websocket connection, scoped to a single trip room.
type Client struct {
	id     string
	gw     *Gateway
	conn   *websocket.Conn
	tripID string
	user   models.TripUser
	send   chan []byte
	done   chan struct{}
}

// enqueue hands a frame to the write pump without blocking the caller; a
// client that cannot drain its buffer loses the frame and will resync from
// the next plan open.
func (c *Client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	case <-c.done:
	default:
		log.Printf("[WS] drop frame trip_id=%s client=%s (slow consumer)", c.tripID, c.id)
	}
}

func (c *Client) sendEvent(event string, data any) {
	frame, err := encodeEvent(event, data)
	if err != nil {
		log.Printf("[WS] gagal encode event %s: %v", event, err)
		return
	}
	c.enqueue(frame)
}

// writePump owns all writes on the connection: queued frames plus liveness
// pings, each under a write deadline.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// readPump reads commands until the connection drops, dispatching each one
// against the plan engine.
func (c *Client) readPump() {
	defer func() {
		close(c.done)
		c.gw.Hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] read error trip_id=%s client=%s: %v", c.tripID, c.id, err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			c.sendEvent(EventCommandError, commandErrorEvent{Reason: "frame tidak valid"})
			continue
		}
		c.dispatch(env)
	}
}

func (c *Client) dispatch(env Envelope) {
	switch env.Event {
	case EventPing:
		c.sendEvent(EventPong, nil)

	case EventItemAdded:
		cmd, ok := c.decodeCommand(env)
		if !ok {
			return
		}
		res, err := c.gw.Engine.AddItem(c.tripID, models.Section(cmd.Section), cmd.Item, &c.user)
		if err != nil {
			c.sendEvent(EventCommandError, commandErrorEvent{Event: env.Event, Reason: err.Error()})
			return
		}
		c.broadcastEvent(EventOnItemAdded, itemAddedEvent{Section: cmd.Section, Item: res.Item, AddedBy: c.user})

	case EventItemUpdated:
		cmd, ok := c.decodeCommand(env)
		if !ok {
			return
		}
		res, err := c.gw.Engine.UpdateItem(c.tripID, models.Section(cmd.Section), cmd.Item)
		if err != nil {
			c.sendEvent(EventCommandError, commandErrorEvent{Event: env.Event, Reason: err.Error()})
			return
		}
		if !res.Applied {
			// target already gone; nothing to relay, the command still counts
			// as accepted
			return
		}
		c.broadcastEvent(EventOnItemUpdated, itemUpdatedEvent{Section: cmd.Section, Item: res.Item, UpdatedBy: c.user})

	case EventItemDeleted:
		cmd, ok := c.decodeCommand(env)
		if !ok {
			return
		}
		if err := c.gw.Engine.DeleteItem(c.tripID, models.Section(cmd.Section), cmd.ItemID); err != nil {
			c.sendEvent(EventCommandError, commandErrorEvent{Event: env.Event, Reason: err.Error()})
			return
		}
		c.broadcastEvent(EventOnItemDeleted, itemDeletedEvent{Section: cmd.Section, ItemID: cmd.ItemID, DeletedBy: c.user})

	default:
		c.sendEvent(EventCommandError, commandErrorEvent{Event: env.Event, Reason: "event tidak dikenal"})
	}
}

func (c *Client) decodeCommand(env Envelope) (ItemCommand, bool) {
	var cmd ItemCommand
	if err := json.Unmarshal(env.Data, &cmd); err != nil {
		c.sendEvent(EventCommandError, commandErrorEvent{Event: env.Event, Reason: "payload tidak valid"})
		return cmd, false
	}
	return cmd, true
}

func (c *Client) broadcastEvent(event string, data any) {
	frame, err := encodeEvent(event, data)
	if err != nil {
		log.Printf("[WS] gagal encode event %s: %v", event, err)
		return
	}
	c.gw.Hub.Broadcast(c.tripID, frame)
}
