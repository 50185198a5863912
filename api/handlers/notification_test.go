package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kgcas/alumni-connect-api/databases/mocks"
	"github.com/kgcas/alumni-connect-api/models"
)

func httpHandler(relay *Relay) http.Handler {
	return http.HandlerFunc(relay.HandleWebSocket)
}

func sendFrame(t *testing.T, conn *websocket.Conn, event string, data interface{}) {
	t.Helper()
	raw, err := json.Marshal(data)
	assert.NoError(t, err)
	frame, err := json.Marshal(map[string]interface{}{"event": event, "data": json.RawMessage(raw)})
	assert.NoError(t, err)
	assert.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

func readFrame(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	assert.NoError(t, err)

	var frame struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(raw, &frame))
	return frame.Event, frame.Data
}

func TestRelayDeliversMessageToReceiverRoom(t *testing.T) {
	senderID := primitive.NewObjectID()
	receiverID := primitive.NewObjectID()

	mockDB := mocks.NewMessageDatabase(t)
	relay := NewRelay(mockDB)

	persisted := make(chan models.Message, 1)
	mockDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.Message")).
		Run(func(args mock.Arguments) {
			persisted <- args.Get(1).(models.Message)
		}).
		Return(nil, nil)

	srv := httptest.NewServer(httpHandler(relay))
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	receiver, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	t.Cleanup(func() { receiver.Close() })

	sender, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	t.Cleanup(func() { sender.Close() })

	sendFrame(t, receiver, "join_room", receiverID.Hex())
	sendFrame(t, sender, "join_room", senderID.Hex())
	waitForRoom(t, relay, receiverID.Hex())
	waitForRoom(t, relay, senderID.Hex())

	sendFrame(t, sender, "send_message", map[string]string{
		"senderId":   senderID.Hex(),
		"receiverId": receiverID.Hex(),
		"message":    "hello over the wire",
	})

	event, data := readFrame(t, receiver)
	assert.Equal(t, "receive_message", event)

	var msg chatPayload
	assert.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "hello over the wire", msg.Message)
	assert.Equal(t, senderID.Hex(), msg.SenderID)

	select {
	case stored := <-persisted:
		assert.Equal(t, senderID, stored.SenderID)
		assert.Equal(t, receiverID, stored.ReceiverID)
		assert.Equal(t, "hello over the wire", stored.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("message was never persisted")
	}
}

func TestRelayNotification(t *testing.T) {
	receiverID := primitive.NewObjectID()

	relay := NewRelay(mocks.NewMessageDatabase(t))

	srv := httptest.NewServer(httpHandler(relay))
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	receiver, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	t.Cleanup(func() { receiver.Close() })

	sender, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	t.Cleanup(func() { sender.Close() })

	sendFrame(t, receiver, "join_room", receiverID.Hex())
	waitForRoom(t, relay, receiverID.Hex())

	sendFrame(t, sender, "send_notification", map[string]string{"receiverId": receiverID.Hex()})

	event, _ := readFrame(t, receiver)
	assert.Equal(t, "receive_notification", event)
}

func TestRelayEmitToEmptyRoomIsNoop(t *testing.T) {
	relay := NewRelay(mocks.NewMessageDatabase(t))
	// nobody joined, must not panic
	relay.Emit(primitive.NewObjectID().Hex(), "receive_notification", nil)
}

// waitForRoom blocks until the relay has registered a socket for the
// given user, so Emit cannot race the join
func waitForRoom(t *testing.T, relay *Relay, userID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		relay.mutex.Lock()
		joined := len(relay.rooms[userID]) > 0
		relay.mutex.Unlock()
		if joined {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("user %s never joined their room", userID)
}
