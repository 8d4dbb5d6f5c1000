package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Team holds the structure for the teams collection in mongo
type Team struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Code     string             `json:"code" bson:"code"` // 6-char join code
	LeaderID string             `json:"leaderId" bson:"leaderId"`
	Members  []string           `json:"members" bson:"members"`
}
