package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Team message types
const (
	TeamMessageText             = "text"
	TeamMessageFile             = "file"
	TeamMessageTaskUpdate       = "task_update"
	TeamMessageDeadlineReminder = "deadline_reminder"
)

// TeamMessage holds the structure for the teamchats collection in mongo.
// Sender details are denormalized for faster history queries.
type TeamMessage struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	TeamID      string             `json:"teamId" bson:"teamId"`
	TaskID      string             `json:"taskId,omitempty" bson:"taskId,omitempty"`
	SenderID    string             `json:"senderId" bson:"senderId"`
	Message     string             `json:"message" bson:"message"`
	SenderName  string             `json:"senderName" bson:"senderName"`
	SenderRole  string             `json:"senderRole" bson:"senderRole"`
	MessageType string             `json:"messageType" bson:"messageType"`
	FileURL     string             `json:"fileUrl,omitempty" bson:"fileUrl,omitempty"`
	Reactions   []Reaction         `json:"reactions,omitempty" bson:"reactions,omitempty"`
	IsPinned    bool               `json:"isPinned" bson:"isPinned"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// Reaction is a single emoji reaction on a team message
type Reaction struct {
	UserID string `json:"userId" bson:"userId"`
	Emoji  string `json:"emoji" bson:"emoji"`
}

// TeamChatHistoryResponse is the payload returned by the team chat history endpoint
type TeamChatHistoryResponse struct {
	Success  bool          `json:"success"`
	Messages []TeamMessage `json:"messages"`
}
