package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Notification types
const (
	NotificationTaskAssignment     = "task_assignment"
	NotificationSubmissionReviewed = "submission_reviewed"
	NotificationTeamInvite         = "team_invite"
	NotificationMentorMessage      = "mentor_message"
	NotificationVideoRequest       = "video_request"
	NotificationTaskCompletion     = "task_completion"
	NotificationApplicationStatus  = "application_status"
)

// Notification holds the structure for the notifications collection in mongo.
// Once created the only permitted mutation is flipping isRead together
// with readAt.
type Notification struct {
	ID            primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	UserID        string              `json:"userId" bson:"userId"` // recipient
	Type          string              `json:"type" bson:"type"`
	Title         string              `json:"title" bson:"title"`
	Message       string              `json:"message" bson:"message"`
	RelatedTaskID string              `json:"relatedTaskId,omitempty" bson:"relatedTaskId,omitempty"`
	RelatedTeamID string              `json:"relatedTeamId,omitempty" bson:"relatedTeamId,omitempty"`
	RelatedUserID string              `json:"relatedUserId,omitempty" bson:"relatedUserId,omitempty"`
	IsRead        bool                `json:"isRead" bson:"isRead"`
	ReadAt        *primitive.DateTime `json:"readAt,omitempty" bson:"readAt,omitempty"`
	CreatedAt     primitive.DateTime  `json:"createdAt" bson:"createdAt"`
	ActionLink    string              `json:"actionLink,omitempty" bson:"actionLink,omitempty"`
}

// NotificationListResponse is the payload returned by the notifications endpoint
type NotificationListResponse struct {
	Success       bool           `json:"success"`
	Notifications []Notification `json:"notifications"`
}
