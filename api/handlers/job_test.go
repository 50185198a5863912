package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kgcas/alumni-connect-api/databases/mocks"
	"github.com/kgcas/alumni-connect-api/models"
)

func TestCreateJobHandler(t *testing.T) {
	posterID := primitive.NewObjectID()

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
	}{
		{
			name: "successful post",
			body: map[string]interface{}{
				"title":       "Backend Engineer",
				"company":     "Initech",
				"location":    "Chennai",
				"description": "Go services on Mongo",
				"skills":      []string{"Go", "MongoDB"},
				"applyLink":   "https://initech.example/jobs/42",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing company",
			body: map[string]interface{}{
				"title":       "Backend Engineer",
				"description": "Go services on Mongo",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing everything",
			body:           map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := mocks.NewJobDatabase(t)
			handler := Job{DB: mockDB, UDB: mocks.NewUserDatabase(t)}

			if tt.expectedStatus == http.StatusCreated {
				mockDB.On("InsertOne", mock.Anything, mock.AnythingOfType("models.Job")).
					Run(func(args mock.Arguments) {
						job := args.Get(1).(models.Job)
						assert.Equal(t, posterID, job.PostedBy)
					}).
					Return(nil, nil)
			}

			b, _ := json.Marshal(tt.body)
			req := authedRequest("POST", "/api/v1/jobs", b, posterID.Hex(), models.RoleAlumni)
			w := httptest.NewRecorder()

			handler.CreateJobHandler(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestJobsHandlerResolvesPosters(t *testing.T) {
	poster := models.User{ID: primitive.NewObjectID(), Name: "Ravi K", Role: models.RoleAlumni}
	jobs := []models.Job{
		{ID: primitive.NewObjectID(), Title: "Backend Engineer", Company: "Initech", PostedBy: poster.ID},
		{ID: primitive.NewObjectID(), Title: "SRE", Company: "Initech", PostedBy: poster.ID},
	}

	mockDB := mocks.NewJobDatabase(t)
	mockUDB := mocks.NewUserDatabase(t)
	handler := Job{DB: mockDB, UDB: mockUDB}

	mockDB.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(jobs, nil)
	// both jobs share a poster, the lookup is deduped
	mockUDB.On("Find", mock.Anything, bson.M{"_id": bson.M{"$in": []primitive.ObjectID{poster.ID}}}).
		Return([]models.User{poster}, nil)

	req := authedRequest("GET", "/api/v1/jobs", nil, primitive.NewObjectID().Hex(), models.RoleStudent)
	w := httptest.NewRecorder()

	handler.JobsHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []models.JobWithPoster
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, "Ravi K", resp[0].PostedBy.Name)
	assert.Equal(t, "Ravi K", resp[1].PostedBy.Name)
}

func TestJobByIDHandler(t *testing.T) {
	poster := models.User{ID: primitive.NewObjectID(), Name: "Ravi K"}
	jobID := primitive.NewObjectID()

	tests := []struct {
		name           string
		job            *models.Job
		findErr        error
		expectedStatus int
	}{
		{
			name:           "found",
			job:            &models.Job{ID: jobID, Title: "Backend Engineer", PostedBy: poster.ID},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found",
			findErr:        mongo.ErrNoDocuments,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := mocks.NewJobDatabase(t)
			mockUDB := mocks.NewUserDatabase(t)
			handler := Job{DB: mockDB, UDB: mockUDB}

			mockDB.On("FindOne", mock.Anything, bson.M{"_id": jobID}).Return(tt.job, tt.findErr)
			if tt.job != nil {
				mockUDB.On("Find", mock.Anything, bson.M{"_id": bson.M{"$in": []primitive.ObjectID{poster.ID}}}).
					Return([]models.User{poster}, nil)
			}

			req := authedRequest("GET", "/api/v1/jobs/"+jobID.Hex(), nil, primitive.NewObjectID().Hex(), models.RoleStudent)
			req = mux.SetURLVars(req, map[string]string{"job_id": jobID.Hex()})
			w := httptest.NewRecorder()

			handler.JobByIDHandler(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
