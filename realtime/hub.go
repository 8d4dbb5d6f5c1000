package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/api"
	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/models"
)

// Hub is the realtime dispatcher. It owns the set of live connections, routes
// inbound frames to handlers, persists messages and fans events out to room
// subscribers. Malformed frames are dropped without a reply; the channel is
// best-effort by design, only the stored record is durable.
type Hub struct {
	presence PresenceTracker
	rooms    RoomRegistry
	chatDB   databases.ChatDatabase
	teamDB   databases.TeamChatDatabase

	mu    sync.RWMutex
	conns map[string]Conn
}

// NewHub wires a dispatcher with its presence tracker, room registry and
// message stores.
func NewHub(presence PresenceTracker, rooms RoomRegistry, chatDB databases.ChatDatabase, teamDB databases.TeamChatDatabase) *Hub {
	return &Hub{
		presence: presence,
		rooms:    rooms,
		chatDB:   chatDB,
		teamDB:   teamDB,
		conns:    make(map[string]Conn),
	}
}

// Register adds a connection to the hub. The connection is anonymous until it
// sends an identify frame.
func (h *Hub) Register(conn Conn) {
	h.mu.Lock()
	h.conns[conn.ID()] = conn
	h.mu.Unlock()
}

// Disconnect removes a connection, drops its room memberships and presence
// entry, and broadcasts the updated online count.
func (h *Hub) Disconnect(conn Conn) {
	h.mu.Lock()
	delete(h.conns, conn.ID())
	h.mu.Unlock()

	h.rooms.LeaveAll(conn)
	h.presence.Unregister(conn.ID())
	h.broadcastAll(OutFrame{Event: EventOnlineUsersCount, Data: h.presence.Count()})
}

// OnlineCount returns the number of distinct identified users.
func (h *Hub) OnlineCount() int {
	return h.presence.Count()
}

// BroadcastToRoom fans an event out to every member of room. Used by the REST
// handlers and the notification relay; a room nobody joined is a silent no-op.
func (h *Hub) BroadcastToRoom(room, event string, data interface{}) {
	h.rooms.Broadcast(room, OutFrame{Event: event, Data: data}, "")
}

// HandleFrame routes one inbound frame. Handlers run to completion on the
// connection's read loop, so a single connection's events keep their order.
func (h *Hub) HandleFrame(ctx context.Context, conn Conn, frame Frame) {
	switch frame.Event {
	case EventIdentify:
		h.handleIdentify(conn, frame.Data)
	case EventJoinTaskRoom:
		h.handleJoinTaskRoom(conn, frame.Data)
	case EventTyping:
		h.handleTyping(conn, frame.Data)
	case EventTaskMessage:
		h.handleTaskMessage(ctx, conn, frame.Data)
	case EventJoinTeamRoom:
		h.handleJoinTeamRoom(conn, frame.Data)
	case EventLeaveTeamRoom:
		h.handleLeaveTeamRoom(conn, frame.Data)
	case EventTeamUserTyping:
		h.handleTeamTyping(conn, frame.Data, EventTeamUserTyping)
	case EventTeamUserStoppedTyping:
		h.handleTeamTyping(conn, frame.Data, EventTeamUserStoppedTyping)
	case EventTeamMessage:
		h.handleTeamMessage(ctx, conn, frame.Data)
	default:
		zap.S().Debugw("dropping unknown realtime event", "event", frame.Event)
	}
}

func (h *Hub) handleIdentify(conn Conn, data json.RawMessage) {
	var p IdentifyPayload
	if err := json.Unmarshal(data, &p); err != nil || p.UserID == "" {
		return
	}
	h.presence.Register(p.UserID, conn.ID())
	h.broadcastAll(OutFrame{Event: EventOnlineUsersCount, Data: h.presence.Count()})

	// Personal rooms carry relay pushes (video requests, completion reports).
	switch p.Role {
	case models.RoleMentor:
		h.rooms.Join(conn, MentorRoom(p.UserID))
	case models.RoleStudent:
		h.rooms.Join(conn, StudentRoom(p.UserID))
	}
}

func (h *Hub) handleJoinTaskRoom(conn Conn, data json.RawMessage) {
	var p TaskRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.TaskID == "" {
		return
	}
	h.rooms.Join(conn, TaskRoom(p.TaskID))
}

func (h *Hub) handleTyping(conn Conn, data json.RawMessage) {
	var p TaskRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.TaskID == "" || p.UserID == "" {
		return
	}
	h.rooms.Broadcast(TaskRoom(p.TaskID),
		OutFrame{Event: EventShowTyping, Data: TypingBroadcast{UserID: p.UserID}},
		conn.ID(),
	)
}

func (h *Hub) handleJoinTeamRoom(conn Conn, data json.RawMessage) {
	var p TeamRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.TeamID == "" {
		return
	}
	room := TeamRoom(p.TeamID)
	h.rooms.Join(conn, room)
	h.rooms.Broadcast(room,
		OutFrame{Event: EventTeamUserJoined, Data: TeamRoomBroadcast{TeamID: p.TeamID}},
		conn.ID(),
	)
}

func (h *Hub) handleLeaveTeamRoom(conn Conn, data json.RawMessage) {
	var p TeamRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.TeamID == "" {
		return
	}
	room := TeamRoom(p.TeamID)
	h.rooms.Leave(conn, room)
	h.rooms.Broadcast(room,
		OutFrame{Event: EventTeamUserLeft, Data: TeamRoomBroadcast{TeamID: p.TeamID}},
		conn.ID(),
	)
}

func (h *Hub) handleTeamTyping(conn Conn, data json.RawMessage, event string) {
	var p TeamRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.TeamID == "" || p.UserID == "" {
		return
	}
	out := TypingBroadcast{UserID: p.UserID}
	if event == EventTeamUserTyping {
		out.UserName = p.UserName
	}
	h.rooms.Broadcast(TeamRoom(p.TeamID), OutFrame{Event: event, Data: out}, conn.ID())
}

func (h *Hub) handleTaskMessage(ctx context.Context, conn Conn, data json.RawMessage) {
	var p MessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.TaskID == "" {
		return
	}
	body, ok := validMessageBody(p.Message)
	if !ok {
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	msg := models.ChatMessage{
		TaskID:     p.TaskID,
		SenderID:   p.UserID,
		Message:    body,
		SenderName: p.UserName,
		SenderRole: roleOrStudent(p.UserRole),
		CreatedAt:  now,
	}

	dbCtx, cancel := api.WithQueryTimeout(ctx)
	defer cancel()
	saved, err := h.chatDB.InsertOne(dbCtx, msg)
	if err != nil {
		zap.S().Errorw("failed to save task message", "taskId", p.TaskID, "senderId", p.UserID, "error", err)
		return
	}

	// Everyone in the room gets the echo, the sender included.
	h.rooms.Broadcast(TaskRoom(p.TaskID), OutFrame{
		Event: EventNewTaskMessage,
		Data: TaskMessageBroadcast{
			ID:        saved.ID,
			UserID:    p.UserID,
			UserName:  p.UserName,
			Message:   body,
			Timestamp: now,
			TaskID:    p.TaskID,
			UserRole:  msg.SenderRole,
		},
	}, "")
}

func (h *Hub) handleTeamMessage(ctx context.Context, conn Conn, data json.RawMessage) {
	var p MessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.TeamID == "" || p.UserID == "" {
		return
	}
	body, ok := validMessageBody(p.Message)
	if !ok {
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	msg := models.TeamMessage{
		TeamID:      p.TeamID,
		SenderID:    p.UserID,
		Message:     body,
		SenderName:  p.UserName,
		SenderRole:  roleOrStudent(p.UserRole),
		MessageType: models.TeamMessageText,
		CreatedAt:   now,
	}

	dbCtx, cancel := api.WithQueryTimeout(ctx)
	defer cancel()
	saved, err := h.teamDB.InsertOne(dbCtx, msg)
	if err != nil {
		zap.S().Errorw("failed to save team message", "teamId", p.TeamID, "senderId", p.UserID, "error", err)
		return
	}

	h.rooms.Broadcast(TeamRoom(p.TeamID), OutFrame{
		Event: EventNewTeamMessage,
		Data: TeamMessageBroadcast{
			ID:         saved.ID,
			SenderID:   p.UserID,
			SenderName: p.UserName,
			Message:    body,
			SenderRole: msg.SenderRole,
			CreatedAt:  now,
			TeamID:     p.TeamID,
		},
	}, "")
}

func (h *Hub) broadcastAll(frame OutFrame) {
	h.mu.RLock()
	targets := make([]Conn, 0, len(h.conns))
	for _, conn := range h.conns {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		conn.Send(frame)
	}
}

// validMessageBody trims the body and enforces the 1..500 length rule.
func validMessageBody(message string) (string, bool) {
	body := strings.TrimSpace(message)
	if body == "" || len(body) > models.MaxMessageLength {
		return "", false
	}
	return body, true
}

func roleOrStudent(role string) string {
	if role == "" {
		return models.RoleStudent
	}
	return role
}
