package databases

// go generate: mockery --name ChatDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorlink/mentorlink-api/models"
)

const chatName = "chats"

// ChatDatabase contains the methods to use with the task chat database
type ChatDatabase interface {
	InsertOne(ctx context.Context, message models.ChatMessage) (models.ChatMessage, error)
	FindByTask(ctx context.Context, taskID string, limit int64) ([]models.ChatMessage, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type chatDatabase struct {
	db DatabaseHelper
}

// NewChatDatabase initializes a new instance of chat database with the provided db connection
func NewChatDatabase(db DatabaseHelper) ChatDatabase {
	return &chatDatabase{
		db: db,
	}
}

func (c *chatDatabase) InsertOne(ctx context.Context, message models.ChatMessage) (models.ChatMessage, error) {
	res, err := c.db.Collection(chatName).InsertOne(ctx, message)
	if err != nil {
		return models.ChatMessage{}, err
	}
	if oid, ok := res.Decode().(primitive.ObjectID); ok {
		message.ID = oid
	}
	return message, nil
}

// FindByTask returns the messages for a task in ascending createdAt order.
// A limit of zero or less means no limit.
func (c *chatDatabase) FindByTask(ctx context.Context, taskID string, limit int64) ([]models.ChatMessage, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	curr, err := c.db.Collection(chatName).Find(ctx, bson.M{"taskId": taskID}, opts)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	var messages []models.ChatMessage
	if err := curr.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *chatDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(chatName).CountDocuments(ctx, filter, opts...)
}
