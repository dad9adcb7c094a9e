package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tripmate/internal/domain/models"
	"tripmate/internal/plan"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// browser origins are already policed by the REST CORS layer
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Gateway admits websocket connections to trip rooms. A connection must
// authenticate with its first frame; only tripmates of an existing trip get
// in, everyone else is turned away before touching any plan state.
type Gateway struct {
	Hub       *Hub
	Engine    *plan.Engine
	Scheduler *plan.Scheduler

	// LookupTrip fetches the trip record for the membership check.
	LookupTrip func(tripID string) (models.Trip, error)
	// OpenPlan hydrates the plan store before the client can mutate;
	// guarantees a lazily-created default never shadows persisted state.
	OpenPlan func(tripID string) (*models.Plan, error)

	AuthTimeout time.Duration
}

func (g *Gateway) authTimeout() time.Duration {
	if g.AuthTimeout > 0 {
		return g.AuthTimeout
	}
	return 10 * time.Second
}

// HandleWS is the gin endpoint for GET /ws.
func (g *Gateway) HandleWS(c *gin.Context) {
	g.serveWS(c.Writer, c.Request)
}

func (g *Gateway) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade gagal: %v", err)
		return
	}
	g.admit(conn)
}

// admit runs the handshake and, on success, the client's read pump.
func (g *Gateway) admit(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(g.authTimeout()))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return
	}

	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil || env.Event != EventAuth {
		conn.Close()
		return
	}
	var auth AuthPayload
	if err := json.Unmarshal(env.Data, &auth); err != nil {
		conn.Close()
		return
	}

	// both fields are required before any check runs; missing either means
	// disconnect without an event
	if strings.TrimSpace(auth.TripID) == "" || auth.User == nil {
		conn.Close()
		return
	}

	trip, err := g.LookupTrip(auth.TripID)
	if err != nil {
		g.reject(conn, "trip tidak ditemukan")
		return
	}
	email := strings.ToLower(strings.TrimSpace(auth.User.Email))
	if !trip.HasTripmate(email) {
		g.reject(conn, "bukan tripmate dari trip ini")
		return
	}

	if g.OpenPlan != nil {
		if _, err := g.OpenPlan(auth.TripID); err != nil {
			log.Printf("[WS] gagal buka plan trip_id=%s: %v", auth.TripID, err)
			conn.Close()
			return
		}
	}

	client := &Client{
		id:     uuid.NewString(),
		gw:     g,
		conn:   conn,
		tripID: auth.TripID,
		user:   *auth.User,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
	g.Hub.join(client)

	go client.writePump()
	client.readPump()
}

// reject sends unauthorizedJoin with a human-readable reason, then closes.
func (g *Gateway) reject(conn *websocket.Conn, reason string) {
	frame, err := encodeEvent(EventUnauthorizedJoin, unauthorizedJoinEvent{Reason: reason})
	if err == nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.TextMessage, frame)
	}
	conn.Close()
}
