package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kgcas/alumni-connect-api/api"
	"github.com/kgcas/alumni-connect-api/config"
	"github.com/kgcas/alumni-connect-api/databases"
	"github.com/kgcas/alumni-connect-api/models"
)

// Mentorship handles mentorship request/accept flows
type Mentorship struct {
	DB  databases.MentorshipDatabase
	UDB databases.UserDatabase
}

type sendRequestBody struct {
	AlumniID string `json:"alumniId"`
	Message  string `json:"message"`
}

// SendRequestHandler creates a pending request from the caller to an
// alumni. A pair can hold at most one request regardless of its
// status, so a rejected pair cannot re-request.
func (m Mentorship) SendRequestHandler(w http.ResponseWriter, r *http.Request) {
	var req sendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	studentID := api.UserIDFromContext(r.Context())
	if studentID == req.AlumniID {
		config.ErrorStatus("cannot request mentorship from yourself", http.StatusBadRequest, w, fmt.Errorf("self request"))
		return
	}

	sID, err := primitive.ObjectIDFromHex(studentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	aID, err := primitive.ObjectIDFromHex(req.AlumniID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err = m.DB.FindOne(ctx, bson.M{"studentId": sID, "alumniId": aID})
	if err == nil {
		config.ErrorStatus("request already sent", http.StatusBadRequest, w, fmt.Errorf("duplicate request"))
		return
	}
	if err != mongo.ErrNoDocuments {
		config.ErrorStatus("failed to check for existing request", http.StatusInternalServerError, w, err)
		return
	}

	request := models.Mentorship{
		ID:        primitive.NewObjectID(),
		StudentID: sID,
		AlumniID:  aID,
		Message:   req.Message,
		Status:    models.MentorshipPending,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := m.DB.InsertOne(ctx, request); err != nil {
		config.ErrorStatus("failed to create request", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Mentorship request sent!",
		"id":      request.ID.Hex(),
	})
}

// MyRequestsHandler returns every request where the caller is either
// party, with both endpoints' display identities resolved
func (m Mentorship) MyRequestsHandler(w http.ResponseWriter, r *http.Request) {
	uID, err := primitive.ObjectIDFromHex(api.UserIDFromContext(r.Context()))
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	requests, err := m.DB.Find(ctx, bson.M{"$or": []bson.M{
		{"studentId": uID},
		{"alumniId": uID},
	}})
	if err != nil {
		config.ErrorStatus("failed to get requests", http.StatusInternalServerError, w, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(requests)*2)
	for _, req := range requests {
		ids = append(ids, req.StudentID, req.AlumniID)
	}
	users, err := resolveUsers(ctx, m.UDB, ids)
	if err != nil {
		config.ErrorStatus("failed to resolve request parties", http.StatusInternalServerError, w, err)
		return
	}

	resp := make([]models.MentorshipWithUsers, 0, len(requests))
	for _, req := range requests {
		resp = append(resp, models.MentorshipWithUsers{
			Mentorship: req,
			Student:    users[req.StudentID],
			Alumni:     users[req.AlumniID],
		})
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

type updateStatusBody struct {
	Status string `json:"status"`
}

// UpdateStatusHandler overwrites the request status. Any recognised
// status value is accepted; transitions are not restricted.
func (m Mentorship) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["request_id"]

	rID, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var body updateStatusBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if !models.ValidMentorshipStatus(body.Status) {
		config.ErrorStatus("invalid status", http.StatusBadRequest, w, fmt.Errorf("status must be Pending, Accepted or Rejected"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := m.DB.UpdateOne(ctx, bson.M{"_id": rID}, bson.M{"$set": bson.M{"status": body.Status}})
	if err != nil {
		config.ErrorStatus("failed to update request", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("request not found", http.StatusNotFound, w, fmt.Errorf("no request with id %s", requestID))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": fmt.Sprintf("Request %s", body.Status),
	})
}

// RemoveConnectionHandler hard-deletes a request. Either party uses
// this to cancel a pending request or sever an accepted connection.
func (m Mentorship) RemoveConnectionHandler(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["request_id"]

	rID, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	deleted, err := m.DB.DeleteOne(ctx, bson.M{"_id": rID})
	if err != nil {
		config.ErrorStatus("failed to remove connection", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("connection not found", http.StatusNotFound, w, fmt.Errorf("no request with id %s", requestID))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Connection removed successfully",
	})
}

// MentorsHandler lists every alumni available for mentorship
func (m Mentorship) MentorsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	mentors, err := m.UDB.Find(ctx, bson.M{"role": models.RoleAlumni})
	if err != nil {
		config.ErrorStatus("failed to get mentors", http.StatusInternalServerError, w, err)
		return
	}
	if len(mentors) == 0 {
		mentors = []models.User{}
	}
	b, err := json.Marshal(mentors)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
