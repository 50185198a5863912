package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kgcas/alumni-connect-api/databases/mocks"
	"github.com/kgcas/alumni-connect-api/models"
)

func TestHistoryHandler(t *testing.T) {
	senderID := primitive.NewObjectID()
	receiverID := primitive.NewObjectID()

	messages := []models.Message{
		{
			ID:         primitive.NewObjectID(),
			SenderID:   senderID,
			ReceiverID: receiverID,
			Message:    "hey, got a minute?",
			Timestamp:  primitive.NewDateTimeFromTime(time.Now().Add(-time.Hour)),
		},
		{
			ID:         primitive.NewObjectID(),
			SenderID:   receiverID,
			ReceiverID: senderID,
			Message:    "sure, what's up",
			Timestamp:  primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	mockDB := mocks.NewMessageDatabase(t)
	handler := Chat{DB: mockDB}

	// both directions of the pair in a single filter
	mockDB.On("Find", mock.Anything, bson.M{"$or": []bson.M{
		{"senderId": senderID, "receiverId": receiverID},
		{"senderId": receiverID, "receiverId": senderID},
	}}, mock.Anything).Return(messages, nil)

	req := authedRequest("GET", "/api/v1/chat/"+receiverID.Hex(), nil, senderID.Hex(), models.RoleStudent)
	req = mux.SetURLVars(req, map[string]string{"receiver_id": receiverID.Hex()})
	w := httptest.NewRecorder()

	handler.HistoryHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []models.Message
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, "hey, got a minute?", resp[0].Message)
}

func TestHistoryHandlerEmptyConversation(t *testing.T) {
	senderID := primitive.NewObjectID()
	receiverID := primitive.NewObjectID()

	mockDB := mocks.NewMessageDatabase(t)
	handler := Chat{DB: mockDB}

	mockDB.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	req := authedRequest("GET", "/api/v1/chat/"+receiverID.Hex(), nil, senderID.Hex(), models.RoleStudent)
	req = mux.SetURLVars(req, map[string]string{"receiver_id": receiverID.Hex()})
	w := httptest.NewRecorder()

	handler.HistoryHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestHistoryHandlerBadReceiverID(t *testing.T) {
	handler := Chat{DB: mocks.NewMessageDatabase(t)}

	req := authedRequest("GET", "/api/v1/chat/not-a-hex", nil, primitive.NewObjectID().Hex(), models.RoleStudent)
	req = mux.SetURLVars(req, map[string]string{"receiver_id": "not-a-hex"})
	w := httptest.NewRecorder()

	handler.HistoryHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
