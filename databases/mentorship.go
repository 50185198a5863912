package databases

// go generate: mockery --name MentorshipDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kgcas/alumni-connect-api/models"
)

const mentorshipCollection = "mentorships"

// MentorshipDatabase contains the methods to use with the mentorship database
type MentorshipDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Mentorship, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Mentorship, error)
	InsertOne(ctx context.Context, request models.Mentorship) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type mentorshipDatabase struct {
	db DatabaseHelper
}

// NewMentorshipDatabase initializes a new instance of mentorship database with the provided db connection
func NewMentorshipDatabase(db DatabaseHelper) MentorshipDatabase {
	return &mentorshipDatabase{
		db: db,
	}
}

func (m *mentorshipDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Mentorship, error) {
	request := &models.Mentorship{}
	err := m.db.Collection(mentorshipCollection).FindOne(ctx, filter, opts...).Decode(request)
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (m *mentorshipDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Mentorship, error) {
	var requests []models.Mentorship
	cur, err := m.db.Collection(mentorshipCollection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&requests)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (m *mentorshipDatabase) InsertOne(ctx context.Context, request models.Mentorship) (InsertOneResultHelper, error) {
	return m.db.Collection(mentorshipCollection).InsertOne(ctx, request)
}

func (m *mentorshipDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return m.db.Collection(mentorshipCollection).UpdateOne(ctx, filter, update, opts...)
}

func (m *mentorshipDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return m.db.Collection(mentorshipCollection).DeleteOne(ctx, filter)
}

func (m *mentorshipDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return m.db.Collection(mentorshipCollection).CountDocuments(ctx, filter, opts...)
}
