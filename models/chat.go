package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// MaxMessageLength is the longest chat message body we will persist,
// measured after trimming surrounding whitespace.
const MaxMessageLength = 500

// ChatMessage holds the structure for the chats collection in mongo.
// Messages are scoped to a task and immutable once created, except for
// readBy appends.
type ChatMessage struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	TaskID     string             `json:"taskId" bson:"taskId"`
	SenderID   string             `json:"senderId" bson:"senderId"`
	Message    string             `json:"message" bson:"message"`
	SenderName string             `json:"senderName" bson:"senderName"`
	SenderRole string             `json:"senderRole" bson:"senderRole"` // "student" or "mentor"
	CreatedAt  primitive.DateTime `json:"createdAt" bson:"createdAt"`
	ReadBy     []MessageRead      `json:"readBy,omitempty" bson:"readBy,omitempty"`
}

// MessageRead records a single user having read a message
type MessageRead struct {
	UserID string             `json:"userId" bson:"userId"`
	ReadAt primitive.DateTime `json:"readAt" bson:"readAt"`
}

// ChatHistoryResponse is the payload returned by the task chat history endpoint
type ChatHistoryResponse struct {
	Success  bool          `json:"success"`
	Messages []ChatMessage `json:"messages"`
}
