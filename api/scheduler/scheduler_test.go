package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kgcas/alumni-connect-api/databases/mocks"
	"github.com/kgcas/alumni-connect-api/models"
)

func TestPruneUnverifiedAccounts(t *testing.T) {
	mockDB := mocks.NewUserDatabase(t)
	s := NewScheduler(mockDB)

	var filter bson.M
	mockDB.On("DeleteMany", mock.Anything, mock.AnythingOfType("primitive.M")).
		Run(func(args mock.Arguments) {
			filter = args.Get(1).(bson.M)
		}).
		Return(int64(3), nil)

	s.pruneUnverifiedAccounts()

	assert.Equal(t, false, filter["isVerified"])

	createdAt := filter["createdAt"].(bson.M)
	cutoff := createdAt["$lt"].(primitive.DateTime).Time()
	expected := time.Now().Add(-defaultUnverifiedTTLDays * 24 * time.Hour)
	assert.WithinDuration(t, expected, cutoff, time.Minute)
}

func TestPruneUnverifiedAccountsHonorsTTLOverride(t *testing.T) {
	t.Setenv("UNVERIFIED_TTL_DAYS", "2")

	mockDB := mocks.NewUserDatabase(t)
	s := NewScheduler(mockDB)

	var filter bson.M
	mockDB.On("DeleteMany", mock.Anything, mock.AnythingOfType("primitive.M")).
		Run(func(args mock.Arguments) {
			filter = args.Get(1).(bson.M)
		}).
		Return(int64(0), nil)

	s.pruneUnverifiedAccounts()

	cutoff := filter["createdAt"].(bson.M)["$lt"].(primitive.DateTime).Time()
	assert.WithinDuration(t, time.Now().Add(-2*24*time.Hour), cutoff, time.Minute)
}

func TestRemindPendingApprovalsSkipsWhenQueueEmpty(t *testing.T) {
	mockDB := mocks.NewUserDatabase(t)
	s := NewScheduler(mockDB)

	mockDB.On("CountDocuments", mock.Anything, bson.M{
		"isVerified": true,
		"isApproved": false,
	}).Return(int64(0), nil)

	// with an empty queue no admin lookup and no email happens
	s.remindPendingApprovals()
}

func TestRemindPendingApprovalsLooksUpAdmins(t *testing.T) {
	// no SENDGRID_API_KEY in tests, so sends degrade to a logged no-op
	t.Setenv("SENDGRID_API_KEY", "")

	mockDB := mocks.NewUserDatabase(t)
	s := NewScheduler(mockDB)

	mockDB.On("CountDocuments", mock.Anything, bson.M{
		"isVerified": true,
		"isApproved": false,
	}).Return(int64(2), nil)
	mockDB.On("Find", mock.Anything, bson.M{"role": models.RoleAdmin}).
		Return([]models.User{
			{ID: primitive.NewObjectID(), Name: "Admin", Email: "admin@kgcas.com", Role: models.RoleAdmin},
		}, nil)

	s.remindPendingApprovals()
}
