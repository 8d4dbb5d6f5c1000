package realtime

import "sync"

// Conn is the connection surface the room and presence layers need. The
// websocket client implements it; tests use in-memory fakes.
type Conn interface {
	ID() string
	Send(frame OutFrame) bool
}

// RoomRegistry tracks which connections subscribe to which rooms. Rooms are
// plain namespace strings (task-<id>, team-<id>, mentor-<id>, student-<id>).
type RoomRegistry interface {
	Join(conn Conn, room string)
	Leave(conn Conn, room string)
	LeaveAll(conn Conn)
	// Broadcast sends frame to every member of room except the connection
	// whose id matches exclude. An empty exclude sends to everyone.
	Broadcast(room string, frame OutFrame, exclude string)
}

type memoryRooms struct {
	mu    sync.RWMutex
	rooms map[string]map[string]Conn // room -> connID -> conn
}

// NewRoomRegistry returns an in-process room registry.
func NewRoomRegistry() RoomRegistry {
	return &memoryRooms{rooms: make(map[string]map[string]Conn)}
}

// Join is a no-op for an empty room name, which guards against events that
// carried a missing id.
func (r *memoryRooms) Join(conn Conn, room string) {
	if room == "" || conn == nil {
		return
	}
	r.mu.Lock()
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]Conn)
		r.rooms[room] = members
	}
	members[conn.ID()] = conn
	r.mu.Unlock()
}

func (r *memoryRooms) Leave(conn Conn, room string) {
	if room == "" || conn == nil {
		return
	}
	r.mu.Lock()
	if members, ok := r.rooms[room]; ok {
		delete(members, conn.ID())
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
	r.mu.Unlock()
}

func (r *memoryRooms) LeaveAll(conn Conn) {
	if conn == nil {
		return
	}
	r.mu.Lock()
	for room, members := range r.rooms {
		delete(members, conn.ID())
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
	r.mu.Unlock()
}

func (r *memoryRooms) Broadcast(room string, frame OutFrame, exclude string) {
	r.mu.RLock()
	members, ok := r.rooms[room]
	if !ok {
		r.mu.RUnlock()
		return
	}
	targets := make([]Conn, 0, len(members))
	for id, conn := range members {
		if exclude != "" && id == exclude {
			continue
		}
		targets = append(targets, conn)
	}
	r.mu.RUnlock()

	// Send outside the lock, a slow client must not stall the registry.
	for _, conn := range targets {
		conn.Send(frame)
	}
}
