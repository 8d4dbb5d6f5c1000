package databases

// go generate: mockery --name VideoChatDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorlink/mentorlink-api/models"
)

const videoChatName = "videochats"

// VideoChatDatabase contains the methods to use with the video chat request database
type VideoChatDatabase interface {
	InsertOne(ctx context.Context, request models.VideoChatRequest) (models.VideoChatRequest, error)
	FindOne(ctx context.Context, filter interface{}) (*models.VideoChatRequest, error)
	Complete(ctx context.Context, sessionID string, duration int) (*models.VideoChatRequest, error)
}

type videoChatDatabase struct {
	db DatabaseHelper
}

// NewVideoChatDatabase initializes a new instance of video chat database with the provided db connection
func NewVideoChatDatabase(db DatabaseHelper) VideoChatDatabase {
	return &videoChatDatabase{
		db: db,
	}
}

func (v *videoChatDatabase) InsertOne(ctx context.Context, request models.VideoChatRequest) (models.VideoChatRequest, error) {
	res, err := v.db.Collection(videoChatName).InsertOne(ctx, request)
	if err != nil {
		return models.VideoChatRequest{}, err
	}
	if oid, ok := res.Decode().(primitive.ObjectID); ok {
		request.ID = oid
	}
	return request, nil
}

func (v *videoChatDatabase) FindOne(ctx context.Context, filter interface{}) (*models.VideoChatRequest, error) {
	request := &models.VideoChatRequest{}
	err := v.db.Collection(videoChatName).FindOne(ctx, filter).Decode(request)
	if err != nil {
		return nil, err
	}
	return request, nil
}

// Complete transitions a session to completed and records its duration,
// returning the updated request.
func (v *videoChatDatabase) Complete(ctx context.Context, sessionID string, duration int) (*models.VideoChatRequest, error) {
	now := primitive.NewDateTimeFromTime(time.Now())
	after := options.After
	opts := &options.FindOneAndUpdateOptions{ReturnDocument: &after}

	request := &models.VideoChatRequest{}
	err := v.db.Collection(videoChatName).FindOneAndUpdate(ctx,
		bson.M{"sessionId": sessionID},
		bson.M{"$set": bson.M{
			"status":      models.VideoChatCompleted,
			"duration":    duration,
			"completedAt": now,
		}},
		opts,
	).Decode(request)
	if err != nil {
		return nil, err
	}
	return request, nil
}
