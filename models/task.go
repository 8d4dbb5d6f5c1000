package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Task holds the structure for the tasks collection in mongo
type Task struct {
	ID          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description" bson:"description"`
	Deadline    *primitive.DateTime `json:"deadline,omitempty" bson:"deadline,omitempty"`
	Difficulty  string              `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	Tags        []string            `json:"tags,omitempty" bson:"tags,omitempty"`
	MentorID    string              `json:"mentorId" bson:"mentorId"`
	Status      string              `json:"status" bson:"status"`
	Applicants  int                 `json:"applicants" bson:"applicants"`

	// Set once the deadline reminder job has fired for this task.
	DeadlineReminderSentAt *primitive.DateTime `json:"deadlineReminderSentAt,omitempty" bson:"deadlineReminderSentAt,omitempty"`
}
