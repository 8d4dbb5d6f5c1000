package databases

// go generate: mockery --name TeamChatDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorlink/mentorlink-api/models"
)

const teamChatName = "teamchats"

// TeamChatDatabase contains the methods to use with the team chat database
type TeamChatDatabase interface {
	InsertOne(ctx context.Context, message models.TeamMessage) (models.TeamMessage, error)
	FindRecentByTeam(ctx context.Context, teamID string, limit int64) ([]models.TeamMessage, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type teamChatDatabase struct {
	db DatabaseHelper
}

// NewTeamChatDatabase initializes a new instance of team chat database with the provided db connection
func NewTeamChatDatabase(db DatabaseHelper) TeamChatDatabase {
	return &teamChatDatabase{
		db: db,
	}
}

func (t *teamChatDatabase) InsertOne(ctx context.Context, message models.TeamMessage) (models.TeamMessage, error) {
	res, err := t.db.Collection(teamChatName).InsertOne(ctx, message)
	if err != nil {
		return models.TeamMessage{}, err
	}
	if oid, ok := res.Decode().(primitive.ObjectID); ok {
		message.ID = oid
	}
	return message, nil
}

// FindRecentByTeam returns the most recent messages for a team in descending
// createdAt order. A limit of zero or less means no limit. Callers that want
// chronological order reverse the slice themselves.
func (t *teamChatDatabase) FindRecentByTeam(ctx context.Context, teamID string, limit int64) ([]models.TeamMessage, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	curr, err := t.db.Collection(teamChatName).Find(ctx, bson.M{"teamId": teamID}, opts)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	var messages []models.TeamMessage
	if err := curr.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (t *teamChatDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return t.db.Collection(teamChatName).CountDocuments(ctx, filter, opts...)
}
