package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventCategories lists the categories accepted on creation
var EventCategories = []string{"Webinar", "Workshop", "Meetup", "Hackathon", "Reunion", "Seminar"}

// Event holds the structure for the events collection in mongo.
// The attendees slice has set semantics: a user appears at most once
// and len(attendees) never exceeds TotalSeats.
type Event struct {
	ID          primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	Location    string               `json:"location" bson:"location"`
	Date        primitive.DateTime   `json:"date" bson:"date"`
	Time        string               `json:"time" bson:"time"`
	Category    string               `json:"category" bson:"category"`
	Banner      string               `json:"banner,omitempty" bson:"banner,omitempty"`
	TotalSeats  int                  `json:"totalSeats" bson:"totalSeats"`
	Organizer   primitive.ObjectID   `json:"organizer" bson:"organizer"`
	Attendees   []primitive.ObjectID `json:"attendees" bson:"attendees"`
	CreatedAt   primitive.DateTime   `json:"createdAt" bson:"createdAt"`
}

// EventWithOrganizer is the list projection with the organizer resolved
type EventWithOrganizer struct {
	Event     Event       `json:"event"`
	Organizer UserSummary `json:"organizer"`
}

// EventDetail is the point-lookup projection with all user references resolved
type EventDetail struct {
	Event     Event         `json:"event"`
	Organizer UserSummary   `json:"organizer"`
	Attendees []UserSummary `json:"attendees"`
}

// RSVPResponse reports which direction the toggle took. Callers must
// treat Status as authoritative rather than assuming direction.
type RSVPResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
