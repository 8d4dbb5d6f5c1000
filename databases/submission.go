package databases

// go generate: mockery --name SubmissionDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorlink/mentorlink-api/models"
)

const submissionName = "submissions"

// SubmissionDatabase contains the methods to use with the submission database
type SubmissionDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Submission, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Submission, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Submission, error)
}

type submissionDatabase struct {
	db DatabaseHelper
}

// NewSubmissionDatabase initializes a new instance of submission database with the provided db connection
func NewSubmissionDatabase(db DatabaseHelper) SubmissionDatabase {
	return &submissionDatabase{
		db: db,
	}
}

func (s *submissionDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Submission, error) {
	submission := &models.Submission{}
	err := s.db.Collection(submissionName).FindOne(ctx, filter).Decode(submission)
	if err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *submissionDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Submission, error) {
	curr, err := s.db.Collection(submissionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	var submissions []models.Submission
	if err := curr.All(ctx, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// FindOneAndUpdate applies the update and returns the updated submission.
func (s *submissionDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Submission, error) {
	after := options.After
	opts := &options.FindOneAndUpdateOptions{ReturnDocument: &after}

	submission := &models.Submission{}
	err := s.db.Collection(submissionName).FindOneAndUpdate(ctx, filter, update, opts).Decode(submission)
	if err != nil {
		return nil, err
	}
	return submission, nil
}
