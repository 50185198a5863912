package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job holds the structure for the jobs collection in mongo.
// Jobs are immutable after creation, there is no update path.
type Job struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Company     string             `json:"company" bson:"company"`
	Location    string             `json:"location" bson:"location"`
	Description string             `json:"description" bson:"description"`
	Skills      []string           `json:"skills" bson:"skills"`
	ApplyLink   string             `json:"applyLink" bson:"applyLink"`
	PostedBy    primitive.ObjectID `json:"postedBy" bson:"postedBy"`
	PostedAt    primitive.DateTime `json:"postedAt" bson:"postedAt"`
}

// JobWithPoster is a job with the posting alumni's identity resolved
type JobWithPoster struct {
	Job      Job         `json:"job"`
	PostedBy UserSummary `json:"postedBy"`
}
