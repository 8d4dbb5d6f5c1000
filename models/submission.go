package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Submission holds the structure for the submissions collection in mongo
type Submission struct {
	ID          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	TaskID      string              `json:"taskId" bson:"taskId"`
	StudentID   string              `json:"studentId" bson:"studentId"`
	TeamID      string              `json:"teamId,omitempty" bson:"teamId,omitempty"`
	GithubURL   string              `json:"githubUrl" bson:"githubUrl"`
	DemoURL     string              `json:"demoUrl,omitempty" bson:"demoUrl,omitempty"`
	Notes       string              `json:"notes,omitempty" bson:"notes,omitempty"`
	Status      string              `json:"status" bson:"status"` // in-progress, submitted, reviewed
	SubmittedAt *primitive.DateTime `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
}
