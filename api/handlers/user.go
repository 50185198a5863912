package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/kgcas/alumni-connect-api/api"
	"github.com/kgcas/alumni-connect-api/config"
	"github.com/kgcas/alumni-connect-api/databases"
	"github.com/kgcas/alumni-connect-api/models"
)

// User handles profile, directory and dashboard requests
type User struct {
	DB  databases.UserDatabase
	JDB databases.JobDatabase
	MDB databases.MentorshipDatabase
	EDB databases.EventDatabase
}

// profileFields are the only keys an account can change about itself.
// email, role and the lifecycle flags are not reachable through
// UpdateMeHandler.
var profileFields = map[string]bool{
	"name":           true,
	"bio":            true,
	"skills":         true,
	"about":          true,
	"location":       true,
	"socialLinks":    true,
	"department":     true,
	"batch":          true,
	"rollNumber":     true,
	"currentCompany": true,
	"jobRole":        true,
	"profileImage":   true,
}

// MeHandler returns the caller's own document
func (u User) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID := api.UserIDFromContext(r.Context())

	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateMeHandler applies a partial update to the caller's
// profile-scoped fields
func (u User) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	userID := api.UserIDFromContext(r.Context())

	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var updatedFields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updatedFields); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	update := bson.M{}
	for key, value := range updatedFields {
		if !profileFields[key] {
			zap.S().Debugf("ignoring non-profile field %q in update", key)
			continue
		}
		update[key] = value
	}
	if len(update) == 0 {
		config.ErrorStatus("no updatable fields in request", http.StatusBadRequest, w, fmt.Errorf("nothing to update"))
		return
	}
	update["updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := u.DB.UpdateOne(ctx, bson.M{"_id": uID}, bson.M{"$set": update}); err != nil {
		config.ErrorStatus("failed to update profile", http.StatusInternalServerError, w, err)
		return
	}

	user, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if err != nil {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Profile updated successfully!",
		"user":    user,
	})
}

// UsersHandler serves the directory: list by role or point lookup by id
func (u User) UsersHandler(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	id := r.URL.Query().Get("id")

	filter := bson.M{}
	if id != "" {
		uID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return
		}
		filter["_id"] = uID
	} else if role != "" {
		filter["role"] = role
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := u.DB.Find(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get users", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.User{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// StudentsHandler serves the admin student roster with substring
// search, department/batch filters and configurable ordering
func (u User) StudentsHandler(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	department := r.URL.Query().Get("department")
	batch := r.URL.Query().Get("batch")
	sortBy := r.URL.Query().Get("sort")

	filter := bson.M{"role": models.RoleStudent}
	if search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": search, "$options": "i"}},
			{"email": bson.M{"$regex": search, "$options": "i"}},
			{"rollNumber": bson.M{"$regex": search, "$options": "i"}},
		}
	}
	if department != "" && department != "All" {
		filter["department"] = department
	}
	if batch != "" && batch != "All" {
		filter["batch"] = batch
	}

	var sort bson.D
	switch sortBy {
	case "oldest":
		sort = bson.D{{Key: "createdAt", Value: 1}}
	case "name":
		sort = bson.D{{Key: "name", Value: 1}}
	default:
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := u.DB.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		config.ErrorStatus("failed to get students", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.User{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AdminStatsHandler returns the admin dashboard counters
func (u User) AdminStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	students, err := u.DB.CountDocuments(ctx, bson.M{"role": models.RoleStudent})
	if err != nil {
		config.ErrorStatus("failed to count students", http.StatusInternalServerError, w, err)
		return
	}
	alumni, err := u.DB.CountDocuments(ctx, bson.M{"role": models.RoleAlumni})
	if err != nil {
		config.ErrorStatus("failed to count alumni", http.StatusInternalServerError, w, err)
		return
	}
	pending, err := u.DB.CountDocuments(ctx, bson.M{"isApproved": false})
	if err != nil {
		config.ErrorStatus("failed to count pending users", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(models.AdminStats{Students: students, Alumni: alumni, Pending: pending})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DashboardStatsHandler returns the stat cards shaped by the caller's role
func (u User) DashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	userID := api.UserIDFromContext(r.Context())
	role := api.RoleFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	jobCount, err := u.JDB.CountDocuments(ctx, bson.M{})
	if err != nil {
		config.ErrorStatus("failed to count jobs", http.StatusInternalServerError, w, err)
		return
	}
	eventCount, err := u.EDB.CountDocuments(ctx, bson.M{})
	if err != nil {
		config.ErrorStatus("failed to count events", http.StatusInternalServerError, w, err)
		return
	}

	var stats models.DashboardStats
	switch role {
	case models.RoleStudent:
		uID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return
		}
		myMentorships, err := u.MDB.CountDocuments(ctx, bson.M{"studentId": uID})
		if err != nil {
			config.ErrorStatus("failed to count mentorships", http.StatusInternalServerError, w, err)
			return
		}
		stats = models.DashboardStats{
			Card1: models.StatCard{Label: "Active Jobs", Value: jobCount},
			Card2: models.StatCard{Label: "My Mentorships", Value: myMentorships},
			Card3: models.StatCard{Label: "Events", Value: eventCount},
		}
	case models.RoleAlumni:
		studentCount, err := u.DB.CountDocuments(ctx, bson.M{"role": models.RoleStudent})
		if err != nil {
			config.ErrorStatus("failed to count students", http.StatusInternalServerError, w, err)
			return
		}
		stats = models.DashboardStats{
			Card1: models.StatCard{Label: "Total Students", Value: studentCount},
			Card2: models.StatCard{Label: "Active Jobs", Value: jobCount},
			Card3: models.StatCard{Label: "Events", Value: eventCount},
		}
	default:
		userCount, err := u.DB.CountDocuments(ctx, bson.M{})
		if err != nil {
			config.ErrorStatus("failed to count users", http.StatusInternalServerError, w, err)
			return
		}
		pendingCount, err := u.DB.CountDocuments(ctx, bson.M{"isApproved": false})
		if err != nil {
			config.ErrorStatus("failed to count pending users", http.StatusInternalServerError, w, err)
			return
		}
		stats = models.DashboardStats{
			Card1: models.StatCard{Label: "Total Users", Value: userCount},
			Card2: models.StatCard{Label: "Total Jobs", Value: jobCount},
			Card3: models.StatCard{Label: "Pending Approvals", Value: pendingCount},
		}
	}

	b, err := json.Marshal(stats)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
