package databases

// go generate: mockery --name JobDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kgcas/alumni-connect-api/models"
)

const jobCollection = "jobs"

// JobDatabase contains the methods to use with the job database
type JobDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Job, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Job, error)
	InsertOne(ctx context.Context, job models.Job) (InsertOneResultHelper, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type jobDatabase struct {
	db DatabaseHelper
}

// NewJobDatabase initializes a new instance of job database with the provided db connection
func NewJobDatabase(db DatabaseHelper) JobDatabase {
	return &jobDatabase{
		db: db,
	}
}

func (j *jobDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Job, error) {
	job := &models.Job{}
	err := j.db.Collection(jobCollection).FindOne(ctx, filter, opts...).Decode(job)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (j *jobDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Job, error) {
	var jobs []models.Job
	cur, err := j.db.Collection(jobCollection).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&jobs)
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (j *jobDatabase) InsertOne(ctx context.Context, job models.Job) (InsertOneResultHelper, error) {
	return j.db.Collection(jobCollection).InsertOne(ctx, job)
}

func (j *jobDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return j.db.Collection(jobCollection).CountDocuments(ctx, filter, opts...)
}
