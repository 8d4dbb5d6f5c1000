package realtime

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inbound event names.
const (
	EventIdentify              = "identify"
	EventJoinTaskRoom          = "join-task-room"
	EventJoinTeamRoom          = "join-team-room"
	EventLeaveTeamRoom         = "leave-team-room"
	EventTyping                = "typing"
	EventTeamUserTyping        = "team-user-typing"
	EventTeamUserStoppedTyping = "team-user-stopped-typing"
	EventTaskMessage           = "task-message"
	EventTeamMessage           = "team-message"
)

// Emitted event names.
const (
	EventOnlineUsersCount     = "online-users-count"
	EventShowTyping           = "show-typing"
	EventNewTaskMessage       = "new-task-message"
	EventTeamUserJoined       = "team-user-joined"
	EventTeamUserLeft         = "team-user-left"
	EventNewTeamMessage       = "new-team-message"
	EventMentorMessage        = "mentor-message"
	EventVideoChatRequest     = "video-chat-request"
	EventVideoChatCompleted   = "video-chat-completed"
	EventTaskCompletionReport = "task-completion-report"
)

// Frame is what a client sends over the wire.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// OutFrame is what the server sends to a client.
type OutFrame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// TaskRoom returns the room name for a task chat.
func TaskRoom(taskID string) string { return fmt.Sprintf("task-%s", taskID) }

// TeamRoom returns the room name for a team chat.
func TeamRoom(teamID string) string { return fmt.Sprintf("team-%s", teamID) }

// MentorRoom returns the personal room for a mentor.
func MentorRoom(mentorID string) string { return fmt.Sprintf("mentor-%s", mentorID) }

// StudentRoom returns the personal room for a student.
func StudentRoom(studentID string) string { return fmt.Sprintf("student-%s", studentID) }

// IdentifyPayload announces who owns a connection. Role is optional; when it
// is mentor or student the connection also joins its personal room.
type IdentifyPayload struct {
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
}

// TaskRoomPayload carries the task id for join and typing events.
type TaskRoomPayload struct {
	TaskID string `json:"taskId"`
	UserID string `json:"userId,omitempty"`
}

// TeamRoomPayload carries the team id for join, leave and typing events.
type TeamRoomPayload struct {
	TeamID   string `json:"teamId"`
	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName,omitempty"`
}

// MessagePayload is the inbound body for task-message and team-message.
type MessagePayload struct {
	TaskID   string `json:"taskId,omitempty"`
	TeamID   string `json:"teamId,omitempty"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Message  string `json:"message"`
	UserRole string `json:"userRole,omitempty"`
}

// TypingBroadcast is emitted as show-typing and team typing events.
type TypingBroadcast struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
}

// TeamRoomBroadcast is emitted as team-user-joined and team-user-left.
type TeamRoomBroadcast struct {
	TeamID string `json:"teamId"`
}

// TaskMessageBroadcast is emitted as new-task-message.
type TaskMessageBroadcast struct {
	ID        primitive.ObjectID `json:"_id"`
	UserID    string             `json:"userId"`
	UserName  string             `json:"userName"`
	Message   string             `json:"message"`
	Timestamp primitive.DateTime `json:"timestamp"`
	TaskID    string             `json:"taskId"`
	UserRole  string             `json:"userRole"`
}

// TeamMessageBroadcast is emitted as new-team-message.
type TeamMessageBroadcast struct {
	ID         primitive.ObjectID `json:"_id"`
	SenderID   string             `json:"senderId"`
	SenderName string             `json:"senderName"`
	Message    string             `json:"message"`
	SenderRole string             `json:"senderRole"`
	CreatedAt  primitive.DateTime `json:"createdAt"`
	TeamID     string             `json:"teamId"`
}
