package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mentorship request statuses
const (
	MentorshipPending  = "Pending"
	MentorshipAccepted = "Accepted"
	MentorshipRejected = "Rejected"
)

// ValidMentorshipStatus reports whether s is a recognised status value
func ValidMentorshipStatus(s string) bool {
	return s == MentorshipPending || s == MentorshipAccepted || s == MentorshipRejected
}

// Mentorship holds the structure for the mentorships collection in mongo.
// At most one request exists per (student, alumni) pair.
type Mentorship struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	StudentID primitive.ObjectID `json:"studentId" bson:"studentId"`
	AlumniID  primitive.ObjectID `json:"alumniId" bson:"alumniId"`
	Message   string             `json:"message" bson:"message"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// MentorshipWithUsers is a request with both endpoints' identities resolved
type MentorshipWithUsers struct {
	Mentorship Mentorship  `json:"request"`
	Student    UserSummary `json:"student"`
	Alumni     UserSummary `json:"alumni"`
}
