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

// Job handles job board requests
type Job struct {
	DB  databases.JobDatabase
	UDB databases.UserDatabase
}

type createJobRequest struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	ApplyLink   string   `json:"applyLink"`
}

// CreateJobHandler posts a job. Jobs are immutable once created.
func (j Job) CreateJobHandler(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Title == "" || req.Company == "" || req.Description == "" {
		config.ErrorStatus("missing required fields", http.StatusBadRequest, w, fmt.Errorf("title, company and description are required"))
		return
	}

	postedBy, err := primitive.ObjectIDFromHex(api.UserIDFromContext(r.Context()))
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	if req.Skills == nil {
		req.Skills = []string{}
	}

	job := models.Job{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		Skills:      req.Skills,
		ApplyLink:   req.ApplyLink,
		PostedBy:    postedBy,
		PostedAt:    primitive.NewDateTimeFromTime(time.Now()),
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := j.DB.InsertOne(ctx, job); err != nil {
		config.ErrorStatus("failed to create job", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Job posted successfully!",
		"id":      job.ID.Hex(),
	})
}

// JobsHandler returns every posting newest-first with the posting
// alumni's identity resolved
func (j Job) JobsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sort := bson.D{{Key: "postedAt", Value: -1}}
	jobs, err := j.DB.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		config.ErrorStatus("failed to get jobs", http.StatusInternalServerError, w, err)
		return
	}

	posterIDs := make([]primitive.ObjectID, 0, len(jobs))
	for _, job := range jobs {
		posterIDs = append(posterIDs, job.PostedBy)
	}
	posters, err := resolveUsers(ctx, j.UDB, posterIDs)
	if err != nil {
		config.ErrorStatus("failed to resolve job posters", http.StatusInternalServerError, w, err)
		return
	}

	resp := make([]models.JobWithPoster, 0, len(jobs))
	for _, job := range jobs {
		resp = append(resp, models.JobWithPoster{Job: job, PostedBy: posters[job.PostedBy]})
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// JobByIDHandler returns a job by ID
func (j Job) JobByIDHandler(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["job_id"]

	jID, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	job, err := j.DB.FindOne(ctx, bson.M{"_id": jID})
	if err != nil {
		config.ErrorStatus("job not found", http.StatusNotFound, w, err)
		return
	}

	posters, err := resolveUsers(ctx, j.UDB, []primitive.ObjectID{job.PostedBy})
	if err != nil {
		config.ErrorStatus("failed to resolve job poster", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(models.JobWithPoster{Job: *job, PostedBy: posters[job.PostedBy]})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
