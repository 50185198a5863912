package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kgcas/alumni-connect-api/api"
	"github.com/kgcas/alumni-connect-api/config"
	"github.com/kgcas/alumni-connect-api/databases"
	"github.com/kgcas/alumni-connect-api/models"
)

// Chat serves persisted message history. Live delivery happens over
// the relay; this query is the source of truth regardless of what the
// relay managed to deliver.
type Chat struct {
	DB databases.MessageDatabase
}

// HistoryHandler returns the pairwise conversation between the caller
// and the given receiver, oldest to newest
func (c Chat) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	receiverID := mux.Vars(r)["receiver_id"]

	rID, err := primitive.ObjectIDFromHex(receiverID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	sID, err := primitive.ObjectIDFromHex(api.UserIDFromContext(r.Context()))
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sort := bson.D{{Key: "timestamp", Value: 1}}
	messages, err := c.DB.Find(ctx, bson.M{"$or": []bson.M{
		{"senderId": sID, "receiverId": rID},
		{"senderId": rID, "receiverId": sID},
	}}, options.Find().SetSort(sort))
	if err != nil {
		config.ErrorStatus("failed to get messages", http.StatusInternalServerError, w, err)
		return
	}
	if len(messages) == 0 {
		messages = []models.Message{}
	}

	b, err := json.Marshal(messages)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
