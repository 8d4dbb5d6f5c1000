package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mentorlink/mentorlink-api/databases"
	mocksdb "github.com/mentorlink/mentorlink-api/databases/mocks"
)

func frame(t *testing.T, event string, payload interface{}) Frame {
	t.Helper()
	data, err := json.Marshal(payload)
	assert.NoError(t, err)
	return Frame{Event: event, Data: data}
}

func newTestHub(chatConn, teamConn *mocksdb.CollectionHelper) *Hub {
	db := &mocksdb.DatabaseHelper{}
	if chatConn != nil {
		db.On("Collection", "chats").Return(chatConn)
	}
	if teamConn != nil {
		db.On("Collection", "teamchats").Return(teamConn)
	}
	return NewHub(
		NewPresenceTracker(),
		NewRoomRegistry(),
		databases.NewChatDatabase(db),
		databases.NewTeamChatDatabase(db),
	)
}

func insertReturning(oid primitive.ObjectID) *mocksdb.CollectionHelper {
	res := &mocksdb.InsertOneResultHelper{}
	res.On("Decode").Return(oid)
	conn := &mocksdb.CollectionHelper{}
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(res, nil)
	return conn
}

func TestHubIdentifyBroadcastsOnlineCount(t *testing.T) {
	h := newTestHub(nil, nil)
	a := newFakeConn("a")
	b := newFakeConn("b")
	h.Register(a)
	h.Register(b)

	h.HandleFrame(context.Background(), a, frame(t, EventIdentify, IdentifyPayload{UserID: "user-1"}))

	assert.Equal(t, 1, h.OnlineCount())
	assert.Equal(t, []string{EventOnlineUsersCount}, a.events())
	assert.Equal(t, []string{EventOnlineUsersCount}, b.events())
	assert.Equal(t, 1, a.received()[0].Data)
}

func TestHubIdentifyJoinsPersonalRoom(t *testing.T) {
	h := newTestHub(nil, nil)
	mentor := newFakeConn("m")
	h.Register(mentor)

	h.HandleFrame(context.Background(), mentor, frame(t, EventIdentify, IdentifyPayload{UserID: "42", Role: "mentor"}))

	h.BroadcastToRoom(MentorRoom("42"), EventVideoChatRequest, nil)
	assert.Contains(t, mentor.events(), EventVideoChatRequest)
}

func TestHubIdentifyWithoutUserIDIsDropped(t *testing.T) {
	h := newTestHub(nil, nil)
	a := newFakeConn("a")
	h.Register(a)

	h.HandleFrame(context.Background(), a, frame(t, EventIdentify, IdentifyPayload{}))

	assert.Equal(t, 0, h.OnlineCount())
	assert.Empty(t, a.received())
}

func TestHubDisconnectUpdatesOnlineCount(t *testing.T) {
	h := newTestHub(nil, nil)
	a := newFakeConn("a")
	b := newFakeConn("b")
	h.Register(a)
	h.Register(b)
	h.HandleFrame(context.Background(), a, frame(t, EventIdentify, IdentifyPayload{UserID: "user-1"}))

	h.Disconnect(a)

	assert.Equal(t, 0, h.OnlineCount())
	last := b.received()[len(b.received())-1]
	assert.Equal(t, EventOnlineUsersCount, last.Event)
	assert.Equal(t, 0, last.Data)
}

func TestHubTaskMessagePersistsAndEchoesToRoom(t *testing.T) {
	oid := primitive.NewObjectID()
	chatConn := insertReturning(oid)
	h := newTestHub(chatConn, nil)

	sender := newFakeConn("s")
	peer := newFakeConn("p")
	outsider := newFakeConn("o")
	h.Register(sender)
	h.Register(peer)
	h.Register(outsider)
	h.HandleFrame(context.Background(), sender, frame(t, EventJoinTaskRoom, TaskRoomPayload{TaskID: "42"}))
	h.HandleFrame(context.Background(), peer, frame(t, EventJoinTaskRoom, TaskRoomPayload{TaskID: "42"}))
	h.HandleFrame(context.Background(), outsider, frame(t, EventJoinTaskRoom, TaskRoomPayload{TaskID: "99"}))

	h.HandleFrame(context.Background(), sender, frame(t, EventTaskMessage, MessagePayload{
		TaskID: "42", UserID: "user-1", UserName: "Ada", Message: "  hello  ",
	}))

	chatConn.AssertCalled(t, "InsertOne", mock.Anything, mock.Anything)

	// Sender relies on the echo, so it must receive its own message.
	assert.Equal(t, []string{EventNewTaskMessage}, sender.events())
	assert.Equal(t, []string{EventNewTaskMessage}, peer.events())
	assert.Empty(t, outsider.received())

	data := peer.received()[0].Data.(TaskMessageBroadcast)
	assert.Equal(t, oid, data.ID)
	assert.Equal(t, "hello", data.Message)
	assert.Equal(t, "student", data.UserRole)
	assert.Equal(t, "42", data.TaskID)
}

func TestHubTaskMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload MessagePayload
	}{
		{"missing task id", MessagePayload{UserID: "u", Message: "hello"}},
		{"empty message", MessagePayload{TaskID: "42", UserID: "u", Message: ""}},
		{"whitespace only", MessagePayload{TaskID: "42", UserID: "u", Message: "   "}},
		{"over length", MessagePayload{TaskID: "42", UserID: "u", Message: strings.Repeat("x", 501)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatConn := &mocksdb.CollectionHelper{}
			h := newTestHub(chatConn, nil)
			sender := newFakeConn("s")
			h.Register(sender)
			h.HandleFrame(context.Background(), sender, frame(t, EventJoinTaskRoom, TaskRoomPayload{TaskID: "42"}))

			h.HandleFrame(context.Background(), sender, frame(t, EventTaskMessage, tt.payload))

			chatConn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
			assert.Empty(t, sender.received())
		})
	}
}

func TestHubTaskMessageNoBroadcastOnPersistenceFailure(t *testing.T) {
	chatConn := &mocksdb.CollectionHelper{}
	chatConn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, errors.New("write failed"))
	h := newTestHub(chatConn, nil)

	sender := newFakeConn("s")
	h.Register(sender)
	h.HandleFrame(context.Background(), sender, frame(t, EventJoinTaskRoom, TaskRoomPayload{TaskID: "42"}))

	h.HandleFrame(context.Background(), sender, frame(t, EventTaskMessage, MessagePayload{
		TaskID: "42", UserID: "user-1", UserName: "Ada", Message: "hello",
	}))

	assert.Empty(t, sender.received())
}

func TestHubTypingExcludesSender(t *testing.T) {
	h := newTestHub(nil, nil)
	a := newFakeConn("a")
	b := newFakeConn("b")
	h.Register(a)
	h.Register(b)
	h.HandleFrame(context.Background(), a, frame(t, EventJoinTaskRoom, TaskRoomPayload{TaskID: "42"}))
	h.HandleFrame(context.Background(), b, frame(t, EventJoinTaskRoom, TaskRoomPayload{TaskID: "42"}))

	h.HandleFrame(context.Background(), a, frame(t, EventTyping, TaskRoomPayload{TaskID: "42", UserID: "user-1"}))

	assert.Empty(t, a.received())
	assert.Equal(t, []string{EventShowTyping}, b.events())
	assert.Equal(t, TypingBroadcast{UserID: "user-1"}, b.received()[0].Data)
}

func TestHubJoinTeamRoomNotifiesOthers(t *testing.T) {
	h := newTestHub(nil, nil)
	a := newFakeConn("a")
	b := newFakeConn("b")
	h.Register(a)
	h.Register(b)
	h.HandleFrame(context.Background(), a, frame(t, EventJoinTeamRoom, TeamRoomPayload{TeamID: "7"}))

	h.HandleFrame(context.Background(), b, frame(t, EventJoinTeamRoom, TeamRoomPayload{TeamID: "7"}))

	assert.Equal(t, []string{EventTeamUserJoined}, a.events())
	assert.Empty(t, b.received())
}

func TestHubLeaveTeamRoomNotifiesRemaining(t *testing.T) {
	h := newTestHub(nil, nil)
	a := newFakeConn("a")
	b := newFakeConn("b")
	h.Register(a)
	h.Register(b)
	h.HandleFrame(context.Background(), a, frame(t, EventJoinTeamRoom, TeamRoomPayload{TeamID: "7"}))
	h.HandleFrame(context.Background(), b, frame(t, EventJoinTeamRoom, TeamRoomPayload{TeamID: "7"}))

	h.HandleFrame(context.Background(), b, frame(t, EventLeaveTeamRoom, TeamRoomPayload{TeamID: "7"}))

	events := a.events()
	assert.Equal(t, EventTeamUserLeft, events[len(events)-1])

	// The leaver is out of the room, so later traffic must not reach it.
	h.BroadcastToRoom(TeamRoom("7"), EventNewTeamMessage, nil)
	assert.Empty(t, b.received())
}

func TestHubTeamTypingCarriesUserName(t *testing.T) {
	h := newTestHub(nil, nil)
	a := newFakeConn("a")
	b := newFakeConn("b")
	h.Register(a)
	h.Register(b)
	h.HandleFrame(context.Background(), a, frame(t, EventJoinTeamRoom, TeamRoomPayload{TeamID: "7"}))
	b.frames = nil // drop the join notification
	h.HandleFrame(context.Background(), b, frame(t, EventJoinTeamRoom, TeamRoomPayload{TeamID: "7"}))
	a.frames = nil

	h.HandleFrame(context.Background(), a, frame(t, EventTeamUserTyping, TeamRoomPayload{TeamID: "7", UserID: "u1", UserName: "Ada"}))
	h.HandleFrame(context.Background(), a, frame(t, EventTeamUserStoppedTyping, TeamRoomPayload{TeamID: "7", UserID: "u1"}))

	assert.Empty(t, a.received())
	got := b.received()
	assert.Equal(t, []string{EventTeamUserTyping, EventTeamUserStoppedTyping}, b.events())
	assert.Equal(t, TypingBroadcast{UserID: "u1", UserName: "Ada"}, got[0].Data)
	assert.Equal(t, TypingBroadcast{UserID: "u1"}, got[1].Data)
}

func TestHubTeamMessagePersistsAndBroadcasts(t *testing.T) {
	oid := primitive.NewObjectID()
	teamConn := insertReturning(oid)
	h := newTestHub(nil, teamConn)

	a := newFakeConn("a")
	b := newFakeConn("b")
	h.Register(a)
	h.Register(b)
	h.HandleFrame(context.Background(), a, frame(t, EventJoinTeamRoom, TeamRoomPayload{TeamID: "7"}))
	h.HandleFrame(context.Background(), b, frame(t, EventJoinTeamRoom, TeamRoomPayload{TeamID: "7"}))
	a.frames = nil

	h.HandleFrame(context.Background(), a, frame(t, EventTeamMessage, MessagePayload{
		TeamID: "7", UserID: "u1", UserName: "Ada", Message: "hi team", UserRole: "mentor",
	}))

	teamConn.AssertCalled(t, "InsertOne", mock.Anything, mock.Anything)
	assert.Equal(t, []string{EventNewTeamMessage}, a.events())
	assert.Equal(t, []string{EventNewTeamMessage}, b.events())

	data := a.received()[0].Data.(TeamMessageBroadcast)
	assert.Equal(t, oid, data.ID)
	assert.Equal(t, "u1", data.SenderID)
	assert.Equal(t, "mentor", data.SenderRole)
	assert.Equal(t, "7", data.TeamID)
}

func TestHubTeamMessageRequiresUserID(t *testing.T) {
	teamConn := &mocksdb.CollectionHelper{}
	h := newTestHub(nil, teamConn)
	a := newFakeConn("a")
	h.Register(a)
	h.HandleFrame(context.Background(), a, frame(t, EventJoinTeamRoom, TeamRoomPayload{TeamID: "7"}))

	h.HandleFrame(context.Background(), a, frame(t, EventTeamMessage, MessagePayload{
		TeamID: "7", UserName: "Ada", Message: "hi team",
	}))

	teamConn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestHubUnknownEventIsDropped(t *testing.T) {
	h := newTestHub(nil, nil)
	a := newFakeConn("a")
	h.Register(a)

	h.HandleFrame(context.Background(), a, Frame{Event: "no-such-event", Data: json.RawMessage(`{}`)})
	assert.Empty(t, a.received())
}
