package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message holds the structure for the messages collection in mongo.
// The collection is append-only; history is read via the pairwise query.
type Message struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	SenderID   primitive.ObjectID `json:"senderId" bson:"senderId"`
	ReceiverID primitive.ObjectID `json:"receiverId" bson:"receiverId"`
	Message    string             `json:"message" bson:"message"`
	Timestamp  primitive.DateTime `json:"timestamp" bson:"timestamp"`
}
