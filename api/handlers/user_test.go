package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kgcas/alumni-connect-api/databases/mocks"
	"github.com/kgcas/alumni-connect-api/models"
)

func TestMeHandler(t *testing.T) {
	userID := primitive.NewObjectID()

	tests := []struct {
		name           string
		user           *models.User
		findErr        error
		expectedStatus int
	}{
		{
			name:           "found",
			user:           &models.User{ID: userID, Name: "Priya S", Email: "priya@kgcas.com"},
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
			mockDB := mocks.NewUserDatabase(t)
			handler := User{DB: mockDB}

			mockDB.On("FindOne", mock.Anything, bson.M{"_id": userID}).Return(tt.user, tt.findErr)

			req := authedRequest("GET", "/api/v1/auth/me", nil, userID.Hex(), models.RoleStudent)
			w := httptest.NewRecorder()

			handler.MeHandler(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp models.User
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, "Priya S", resp.Name)
			}
		})
	}
}

func TestUpdateMeHandlerFiltersNonProfileFields(t *testing.T) {
	userID := primitive.NewObjectID()

	mockDB := mocks.NewUserDatabase(t)
	handler := User{DB: mockDB}

	var set bson.M
	mockDB.On("UpdateOne", mock.Anything, bson.M{"_id": userID}, mock.Anything).
		Run(func(args mock.Arguments) {
			set = args.Get(2).(bson.M)["$set"].(bson.M)
		}).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	mockDB.On("FindOne", mock.Anything, bson.M{"_id": userID}).
		Return(&models.User{ID: userID, Name: "Priya Sharma"}, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"name":       "Priya Sharma",
		"bio":        "Backend developer",
		"email":      "hacker@evil.com",
		"role":       models.RoleAdmin,
		"isApproved": true,
	})
	req := authedRequest("PUT", "/api/v1/auth/me/update", body, userID.Hex(), models.RoleStudent)
	w := httptest.NewRecorder()

	handler.UpdateMeHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Priya Sharma", set["name"])
	assert.Equal(t, "Backend developer", set["bio"])
	assert.NotContains(t, set, "email")
	assert.NotContains(t, set, "role")
	assert.NotContains(t, set, "isApproved")
	assert.Contains(t, set, "updatedAt")
}

func TestUpdateMeHandlerNothingToUpdate(t *testing.T) {
	userID := primitive.NewObjectID()
	handler := User{DB: mocks.NewUserDatabase(t)}

	body, _ := json.Marshal(map[string]interface{}{"email": "hacker@evil.com"})
	req := authedRequest("PUT", "/api/v1/auth/me/update", body, userID.Hex(), models.RoleStudent)
	w := httptest.NewRecorder()

	handler.UpdateMeHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsersHandler(t *testing.T) {
	target := models.User{ID: primitive.NewObjectID(), Name: "Ravi K", Role: models.RoleAlumni}

	tests := []struct {
		name   string
		query  string
		filter bson.M
	}{
		{name: "by role", query: "?role=Alumni", filter: bson.M{"role": models.RoleAlumni}},
		{name: "by id", query: "?id=" + target.ID.Hex(), filter: bson.M{"_id": target.ID}},
		{name: "no filter", query: "", filter: bson.M{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := mocks.NewUserDatabase(t)
			handler := User{DB: mockDB}

			mockDB.On("Find", mock.Anything, tt.filter).Return([]models.User{target}, nil)

			req := authedRequest("GET", "/api/v1/auth/users"+tt.query, nil, primitive.NewObjectID().Hex(), models.RoleStudent)
			w := httptest.NewRecorder()

			handler.UsersHandler(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			var resp []models.User
			assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Len(t, resp, 1)
		})
	}
}

func TestStudentsHandlerFilters(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		filter bson.M
	}{
		{
			name:   "plain roster",
			query:  "",
			filter: bson.M{"role": models.RoleStudent},
		},
		{
			name:  "substring search",
			query: "?search=priya",
			filter: bson.M{
				"role": models.RoleStudent,
				"$or": []bson.M{
					{"name": bson.M{"$regex": "priya", "$options": "i"}},
					{"email": bson.M{"$regex": "priya", "$options": "i"}},
					{"rollNumber": bson.M{"$regex": "priya", "$options": "i"}},
				},
			},
		},
		{
			name:   "department filter",
			query:  "?department=CSE",
			filter: bson.M{"role": models.RoleStudent, "department": "CSE"},
		},
		{
			name:   "All department is a no-op",
			query:  "?department=All&batch=All",
			filter: bson.M{"role": models.RoleStudent},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := mocks.NewUserDatabase(t)
			handler := User{DB: mockDB}

			mockDB.On("Find", mock.Anything, tt.filter, mock.Anything).Return([]models.User{}, nil)

			req := authedRequest("GET", "/api/v1/auth/students"+tt.query, nil, primitive.NewObjectID().Hex(), models.RoleAdmin)
			w := httptest.NewRecorder()

			handler.StudentsHandler(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "[]", w.Body.String())
		})
	}
}

func TestAdminStatsHandler(t *testing.T) {
	mockDB := mocks.NewUserDatabase(t)
	handler := User{DB: mockDB}

	mockDB.On("CountDocuments", mock.Anything, bson.M{"role": models.RoleStudent}).Return(int64(42), nil)
	mockDB.On("CountDocuments", mock.Anything, bson.M{"role": models.RoleAlumni}).Return(int64(17), nil)
	mockDB.On("CountDocuments", mock.Anything, bson.M{"isApproved": false}).Return(int64(3), nil)

	req := authedRequest("GET", "/api/v1/auth/stats", nil, primitive.NewObjectID().Hex(), models.RoleAdmin)
	w := httptest.NewRecorder()

	handler.AdminStatsHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.AdminStats
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, int64(42), resp.Students)
	assert.Equal(t, int64(17), resp.Alumni)
	assert.Equal(t, int64(3), resp.Pending)
}

func TestDashboardStatsHandlerByRole(t *testing.T) {
	userID := primitive.NewObjectID()

	t.Run("student", func(t *testing.T) {
		mockUDB := mocks.NewUserDatabase(t)
		mockJDB := mocks.NewJobDatabase(t)
		mockMDB := mocks.NewMentorshipDatabase(t)
		mockEDB := mocks.NewEventDatabase(t)
		handler := User{DB: mockUDB, JDB: mockJDB, MDB: mockMDB, EDB: mockEDB}

		mockJDB.On("CountDocuments", mock.Anything, bson.M{}).Return(int64(5), nil)
		mockEDB.On("CountDocuments", mock.Anything, bson.M{}).Return(int64(2), nil)
		mockMDB.On("CountDocuments", mock.Anything, bson.M{"studentId": userID}).Return(int64(1), nil)

		req := authedRequest("GET", "/api/v1/auth/dashboard-stats", nil, userID.Hex(), models.RoleStudent)
		w := httptest.NewRecorder()

		handler.DashboardStatsHandler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp models.DashboardStats
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(5), resp.Card1.Value)
		assert.Equal(t, int64(1), resp.Card2.Value)
		assert.Equal(t, int64(2), resp.Card3.Value)
	})

	t.Run("admin", func(t *testing.T) {
		mockUDB := mocks.NewUserDatabase(t)
		mockJDB := mocks.NewJobDatabase(t)
		mockEDB := mocks.NewEventDatabase(t)
		handler := User{DB: mockUDB, JDB: mockJDB, MDB: mocks.NewMentorshipDatabase(t), EDB: mockEDB}

		mockJDB.On("CountDocuments", mock.Anything, bson.M{}).Return(int64(5), nil)
		mockEDB.On("CountDocuments", mock.Anything, bson.M{}).Return(int64(2), nil)
		mockUDB.On("CountDocuments", mock.Anything, bson.M{}).Return(int64(60), nil)
		mockUDB.On("CountDocuments", mock.Anything, bson.M{"isApproved": false}).Return(int64(4), nil)

		req := authedRequest("GET", "/api/v1/auth/dashboard-stats", nil, userID.Hex(), models.RoleAdmin)
		w := httptest.NewRecorder()

		handler.DashboardStatsHandler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp models.DashboardStats
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Total Users", resp.Card1.Label)
		assert.Equal(t, int64(60), resp.Card1.Value)
		assert.Equal(t, int64(4), resp.Card3.Value)
	})
}
