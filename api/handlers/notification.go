package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kgcas/alumni-connect-api/api"
	"github.com/kgcas/alumni-connect-api/databases"
	"github.com/kgcas/alumni-connect-api/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// wsEvent is the envelope for every frame on the relay socket
type wsEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type chatPayload struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

type notifyPayload struct {
	ReceiverID string `json:"receiverId"`
}

// Relay delivers application events to every socket joined to a user's
// room. It offers no delivery guarantees: a disconnected recipient
// simply misses the live event and recovers via the history query.
type Relay struct {
	MDB databases.MessageDatabase

	mutex sync.Mutex
	rooms map[string]map[*websocket.Conn]bool
}

// NewRelay creates a relay that persists chat messages through the
// given message database before forwarding them
func NewRelay(mdb databases.MessageDatabase) *Relay {
	return &Relay{
		MDB:   mdb,
		rooms: make(map[string]map[*websocket.Conn]bool),
	}
}

// HandleWebSocket upgrades the connection and serves relay events
// until the client disconnects
func (h *Relay) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	var joinedUser string
	defer func() {
		if joinedUser != "" {
			h.leave(joinedUser, conn)
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			zap.S().Debugw("websocket client disconnected", "user", joinedUser, "error", err)
			return
		}

		var event wsEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			zap.S().Warnw("invalid relay frame", "error", err)
			continue
		}

		switch event.Event {
		case "join_room":
			var userID string
			if err := json.Unmarshal(event.Data, &userID); err != nil || userID == "" {
				zap.S().Warnw("join_room without a user id", "error", err)
				continue
			}
			if joinedUser != "" {
				h.leave(joinedUser, conn)
			}
			joinedUser = userID
			h.join(userID, conn)

		case "send_message":
			var msg chatPayload
			if err := json.Unmarshal(event.Data, &msg); err != nil {
				zap.S().Warnw("invalid send_message payload", "error", err)
				continue
			}
			h.handleMessage(msg)

		case "send_notification":
			var note notifyPayload
			if err := json.Unmarshal(event.Data, &note); err != nil {
				zap.S().Warnw("invalid send_notification payload", "error", err)
				continue
			}
			h.Emit(note.ReceiverID, "receive_notification", nil)

		default:
			zap.S().Debugw("unknown relay event", "event", event.Event)
		}
	}
}

// handleMessage persists the chat message, then forwards it live to
// the receiver's room. Persistence failure skips the forward so the
// receiver never sees a message that history will not return.
func (h *Relay) handleMessage(msg chatPayload) {
	sID, err := primitive.ObjectIDFromHex(msg.SenderID)
	if err != nil {
		zap.S().Warnw("send_message with bad senderId", "senderId", msg.SenderID)
		return
	}
	rID, err := primitive.ObjectIDFromHex(msg.ReceiverID)
	if err != nil {
		zap.S().Warnw("send_message with bad receiverId", "receiverId", msg.ReceiverID)
		return
	}

	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()

	message := models.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   sID,
		ReceiverID: rID,
		Message:    msg.Message,
		Timestamp:  primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := h.MDB.InsertOne(ctx, message); err != nil {
		zap.S().Errorw("failed to persist chat message", "error", err)
		return
	}

	h.Emit(msg.ReceiverID, "receive_message", msg)
}

// Emit sends an application event to every socket in the user's room
func (h *Relay) Emit(userID, event string, data interface{}) {
	frame, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	if err != nil {
		zap.S().Errorw("failed to marshal relay frame", "event", event, "error", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.rooms[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			zap.S().Debugw("failed to write to socket, dropping it", "user", userID, "error", err)
			conn.Close()
			delete(h.rooms[userID], conn)
		}
	}
}

func (h *Relay) join(userID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[userID][conn] = true
	zap.S().Debugf("user %s joined their room", userID)
}

func (h *Relay) leave(userID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.rooms[userID], conn)
	if len(h.rooms[userID]) == 0 {
		delete(h.rooms, userID)
	}
}
