package databases

// go generate: mockery --name TeamDatabase

import (
	"context"

	"github.com/mentorlink/mentorlink-api/models"
)

const teamName = "teams"

// TeamDatabase contains the methods to use with the team database
type TeamDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Team, error)
}

type teamDatabase struct {
	db DatabaseHelper
}

// NewTeamDatabase initializes a new instance of team database with the provided db connection
func NewTeamDatabase(db DatabaseHelper) TeamDatabase {
	return &teamDatabase{
		db: db,
	}
}

func (t *teamDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Team, error) {
	team := &models.Team{}
	err := t.db.Collection(teamName).FindOne(ctx, filter).Decode(team)
	if err != nil {
		return nil, err
	}
	return team, nil
}
