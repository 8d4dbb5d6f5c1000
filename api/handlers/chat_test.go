package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shaj13/go-guardian/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mentorlink/mentorlink-api/api"
	"github.com/mentorlink/mentorlink-api/api/handlers"
	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/databases/mocks"
	"github.com/mentorlink/mentorlink-api/models"
)

// recordingHub captures room broadcasts from handlers under test.
type recordingHub struct {
	mu     sync.Mutex
	rooms  []string
	events []string
	data   []interface{}
}

func (h *recordingHub) BroadcastToRoom(room, event string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rooms = append(h.rooms, room)
	h.events = append(h.events, event)
	h.data = append(h.data, data)
}

// authedRequest attaches an authenticated user to the request context the way
// the auth middleware does.
func authedRequest(req *http.Request, userID primitive.ObjectID) *http.Request {
	info := auth.NewDefaultUser("student@example.com", userID.Hex(), nil, nil)
	return req.WithContext(api.WithUserInfo(req.Context(), info))
}

// userLookupReturning mocks the users collection so currentUser resolves.
func userLookupReturning(db *mocks.DatabaseHelper, user models.User) {
	srh := &mocks.SingleResultHelper{}
	srh.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.User)
		*arg = user
	})
	conn := &mocks.CollectionHelper{}
	conn.On("FindOne", mock.Anything, mock.Anything).Return(srh)
	db.On("Collection", "users").Return(conn)
}

func TestChat_ChatHistoryHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/tasks/1234/chat-history", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"task_id": "1234"})

	messages := []models.ChatMessage{
		{TaskID: "1234", SenderID: "u1", Message: "first"},
		{TaskID: "1234", SenderID: "u2", Message: "second"},
	}

	cursor := &mocks.CursorHelper{}
	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.ChatMessage)
		*arg = messages
	})
	cursor.On("Close", mock.Anything).Return(nil)

	conn := &mocks.CollectionHelper{}
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "chats").Return(conn)

	c := handlers.Chat{DB: databases.NewChatDatabase(db), Hub: &recordingHub{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.ChatHistoryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp models.ChatHistoryResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Messages, 2)
	assert.Equal(t, "first", resp.Messages[0].Message)
}

func TestChat_ChatHistoryHandlerDBError(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/tasks/1234/chat-history", nil)
	req = mux.SetURLVars(req, map[string]string{"task_id": "1234"})

	conn := &mocks.CollectionHelper{}
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "chats").Return(conn)

	c := handlers.Chat{DB: databases.NewChatDatabase(db), Hub: &recordingHub{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.ChatHistoryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestChat_ContactMentorHandlerMissingFields(t *testing.T) {
	req, _ := http.NewRequest("POST", "/api/v1/tasks/1234/contact-mentor", strings.NewReader(`{"message": ""}`))
	req = mux.SetURLVars(req, map[string]string{"task_id": "1234"})

	c := handlers.Chat{Hub: &recordingHub{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.ContactMentorHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChat_ContactMentorHandlerUnauthenticated(t *testing.T) {
	req, _ := http.NewRequest("POST", "/api/v1/tasks/1234/contact-mentor",
		strings.NewReader(`{"message": "help", "mentorId": "m1"}`))
	req = mux.SetURLVars(req, map[string]string{"task_id": "1234"})

	c := handlers.Chat{Hub: &recordingHub{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.ContactMentorHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestChat_ContactMentorHandler(t *testing.T) {
	userID := primitive.NewObjectID()
	req, _ := http.NewRequest("POST", "/api/v1/tasks/1234/contact-mentor",
		strings.NewReader(`{"message": "need a hand", "mentorId": "m1"}`))
	req = mux.SetURLVars(req, map[string]string{"task_id": "1234"})
	req = authedRequest(req, userID)

	db := &mocks.DatabaseHelper{}
	userLookupReturning(db, models.User{ID: userID, Name: "Ada", Role: "student"})

	oid := primitive.NewObjectID()
	insertRes := &mocks.InsertOneResultHelper{}
	insertRes.On("Decode").Return(oid)
	chatConn := &mocks.CollectionHelper{}
	chatConn.On("InsertOne", mock.Anything, mock.Anything).Return(insertRes, nil)
	db.On("Collection", "chats").Return(chatConn)

	hub := &recordingHub{}
	c := handlers.Chat{DB: databases.NewChatDatabase(db), UDB: databases.NewUserDatabase(db), Hub: hub}

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.ContactMentorHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"task-1234"}, hub.rooms)
	assert.Equal(t, []string{"mentor-message"}, hub.events)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
}
