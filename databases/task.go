package databases

// go generate: mockery --name TaskDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorlink/mentorlink-api/models"
)

const taskName = "tasks"

// TaskDatabase contains the methods to use with the task database
type TaskDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Task, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Task, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) error
}

type taskDatabase struct {
	db DatabaseHelper
}

// NewTaskDatabase initializes a new instance of task database with the provided db connection
func NewTaskDatabase(db DatabaseHelper) TaskDatabase {
	return &taskDatabase{
		db: db,
	}
}

func (t *taskDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Task, error) {
	task := &models.Task{}
	err := t.db.Collection(taskName).FindOne(ctx, filter).Decode(task)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (t *taskDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Task, error) {
	curr, err := t.db.Collection(taskName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	var tasks []models.Task
	if err := curr.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (t *taskDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) error {
	return t.db.Collection(taskName).UpdateOne(ctx, filter, update)
}
