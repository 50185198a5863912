package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kgcas/alumni-connect-api/api"
	"github.com/kgcas/alumni-connect-api/config"
	"github.com/kgcas/alumni-connect-api/databases"
	"github.com/kgcas/alumni-connect-api/models"
)

// Event handles event and RSVP requests
type Event struct {
	DB  databases.EventDatabase
	UDB databases.UserDatabase
}

type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Category    string `json:"category"`
	Banner      string `json:"banner"`
	TotalSeats  int    `json:"totalSeats"`
}

// CreateEventHandler creates an event owned by the caller. Only alumni
// and admins may organize events.
func (e Event) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	role := api.RoleFromContext(r.Context())
	if role != models.RoleAlumni && role != models.RoleAdmin {
		config.ErrorStatus("only alumni and admins can create events", http.StatusForbidden, w, fmt.Errorf("forbidden for role %s", role))
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Title == "" || req.Description == "" || req.Location == "" || req.Date == "" || req.Time == "" {
		config.ErrorStatus("missing required fields", http.StatusBadRequest, w, fmt.Errorf("title, description, location, date and time are required"))
		return
	}
	if req.TotalSeats <= 0 {
		config.ErrorStatus("totalSeats must be positive", http.StatusBadRequest, w, fmt.Errorf("got %d", req.TotalSeats))
		return
	}
	if req.Category == "" {
		req.Category = "Webinar"
	}
	if !validEventCategory(req.Category) {
		config.ErrorStatus("invalid category", http.StatusBadRequest, w, fmt.Errorf("unknown category %q", req.Category))
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		// the frontend also posts bare dates
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			config.ErrorStatus("failed to parse date", http.StatusBadRequest, w, err)
			return
		}
	}

	organizer, err := primitive.ObjectIDFromHex(api.UserIDFromContext(r.Context()))
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	event := models.Event{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        primitive.NewDateTimeFromTime(date),
		Time:        req.Time,
		Category:    req.Category,
		Banner:      req.Banner,
		TotalSeats:  req.TotalSeats,
		Organizer:   organizer,
		Attendees:   []primitive.ObjectID{},
		CreatedAt:   primitive.NewDateTimeFromTime(time.Now()),
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := e.DB.InsertOne(ctx, event); err != nil {
		config.ErrorStatus("failed to create event", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Event created successfully",
		"event":   event,
	})
}

func validEventCategory(category string) bool {
	for _, c := range models.EventCategories {
		if c == category {
			return true
		}
	}
	return false
}

// EventsHandler returns all events soonest-first with organizers resolved
func (e Event) EventsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sort := bson.D{{Key: "date", Value: 1}}
	events, err := e.DB.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		config.ErrorStatus("failed to get events", http.StatusInternalServerError, w, err)
		return
	}

	organizerIDs := make([]primitive.ObjectID, 0, len(events))
	for _, ev := range events {
		organizerIDs = append(organizerIDs, ev.Organizer)
	}
	organizers, err := resolveUsers(ctx, e.UDB, organizerIDs)
	if err != nil {
		config.ErrorStatus("failed to resolve organizers", http.StatusInternalServerError, w, err)
		return
	}

	resp := make([]models.EventWithOrganizer, 0, len(events))
	for _, ev := range events {
		resp = append(resp, models.EventWithOrganizer{Event: ev, Organizer: organizers[ev.Organizer]})
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// EventByIDHandler returns an event with organizer and attendees resolved
func (e Event) EventByIDHandler(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["event_id"]

	eID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	event, err := e.DB.FindOne(ctx, bson.M{"_id": eID})
	if err != nil {
		config.ErrorStatus("event not found", http.StatusNotFound, w, err)
		return
	}

	ids := append([]primitive.ObjectID{event.Organizer}, event.Attendees...)
	users, err := resolveUsers(ctx, e.UDB, ids)
	if err != nil {
		config.ErrorStatus("failed to resolve event users", http.StatusInternalServerError, w, err)
		return
	}

	attendees := make([]models.UserSummary, 0, len(event.Attendees))
	for _, id := range event.Attendees {
		attendees = append(attendees, users[id])
	}

	b, err := json.Marshal(models.EventDetail{
		Event:     *event,
		Organizer: users[event.Organizer],
		Attendees: attendees,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RSVPHandler toggles the caller's attendance. Both directions are
// conditional updates so the seat invariant holds even when two
// callers race for the last seat: the $expr filter rejects the write
// once attendees has reached totalSeats, and $addToSet with the $ne
// filter keeps membership unique.
func (e Event) RSVPHandler(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["event_id"]

	eID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	uID, err := primitive.ObjectIDFromHex(api.UserIDFromContext(r.Context()))
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// already attending -> unregister, never needs a capacity check
	res, err := e.DB.UpdateOne(ctx,
		bson.M{"_id": eID, "attendees": uID},
		bson.M{"$pull": bson.M{"attendees": uID}},
	)
	if err != nil {
		config.ErrorStatus("failed to update attendance", http.StatusInternalServerError, w, err)
		return
	}
	if res.ModifiedCount > 0 {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(models.RSVPResponse{
			Message: "Successfully unregistered from the event",
			Status:  "unregistered",
		})
		return
	}

	// not attending -> register, only while a seat is free
	res, err = e.DB.UpdateOne(ctx,
		bson.M{
			"_id":       eID,
			"attendees": bson.M{"$ne": uID},
			"$expr":     bson.M{"$lt": bson.A{bson.M{"$size": "$attendees"}, "$totalSeats"}},
		},
		bson.M{"$addToSet": bson.M{"attendees": uID}},
	)
	if err != nil {
		config.ErrorStatus("failed to update attendance", http.StatusInternalServerError, w, err)
		return
	}
	if res.ModifiedCount > 0 {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(models.RSVPResponse{
			Message: "Successfully registered for the event!",
			Status:  "registered",
		})
		return
	}

	// neither write matched: the event is gone or fully booked
	if _, err := e.DB.FindOne(ctx, bson.M{"_id": eID}); err != nil {
		config.ErrorStatus("event not found", http.StatusNotFound, w, err)
		return
	}
	config.ErrorStatus("event is fully booked", http.StatusBadRequest, w, fmt.Errorf("no seats left"))
}

// DeleteEventHandler removes an event. Only the organizer or an admin may delete.
func (e Event) DeleteEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["event_id"]

	eID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	event, err := e.DB.FindOne(ctx, bson.M{"_id": eID})
	if err != nil {
		config.ErrorStatus("event not found", http.StatusNotFound, w, err)
		return
	}

	callerID := api.UserIDFromContext(r.Context())
	if event.Organizer.Hex() != callerID && api.RoleFromContext(r.Context()) != models.RoleAdmin {
		config.ErrorStatus("only the organizer or an admin can delete this event", http.StatusForbidden, w, fmt.Errorf("forbidden"))
		return
	}

	if _, err := e.DB.DeleteOne(ctx, bson.M{"_id": eID}); err != nil {
		config.ErrorStatus("failed to delete event", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Event deleted successfully",
	})
}
