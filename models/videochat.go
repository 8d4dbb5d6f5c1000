package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Video chat request lifecycle states
const (
	VideoChatPending   = "pending"
	VideoChatAccepted  = "accepted"
	VideoChatRejected  = "rejected"
	VideoChatCompleted = "completed"
)

// VideoChatRequest holds the structure for the videochats collection in mongo
type VideoChatRequest struct {
	ID             primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	TaskID         string              `json:"taskId" bson:"taskId"`
	StudentID      string              `json:"studentId" bson:"studentId"`
	MentorID       string              `json:"mentorId" bson:"mentorId"`
	Reason         string              `json:"reason" bson:"reason"`
	Status         string              `json:"status" bson:"status"`
	SessionID      string              `json:"sessionId" bson:"sessionId"`
	Duration       int                 `json:"duration" bson:"duration"` // minutes, recorded on completion
	RequestedAt    primitive.DateTime  `json:"requestedAt" bson:"requestedAt"`
	RespondedAt    *primitive.DateTime `json:"respondedAt,omitempty" bson:"respondedAt,omitempty"`
	ScheduledFor   *primitive.DateTime `json:"scheduledFor,omitempty" bson:"scheduledFor,omitempty"`
	CompletedAt    *primitive.DateTime `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	MentorResponse string              `json:"mentorResponse,omitempty" bson:"mentorResponse,omitempty"`
}
