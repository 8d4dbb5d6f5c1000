package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mentorlink/mentorlink-api/api/handlers"
	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/databases/mocks"
	"github.com/mentorlink/mentorlink-api/models"
)

func TestNotification_GetNotificationsHandler(t *testing.T) {
	userID := primitive.NewObjectID()
	req, err := http.NewRequest("GET", "/api/v1/notifications", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = authedRequest(req, userID)

	notifications := []models.Notification{
		{ID: primitive.NewObjectID(), UserID: userID.Hex(), Title: "newer"},
		{ID: primitive.NewObjectID(), UserID: userID.Hex(), Title: "older"},
	}

	cursor := &mocks.CursorHelper{}
	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.Notification)
		*arg = notifications
	})
	cursor.On("Close", mock.Anything).Return(nil)

	conn := &mocks.CollectionHelper{}
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "notifications").Return(conn)

	n := handlers.Notification{DB: databases.NewNotificationDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.GetNotificationsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp models.NotificationListResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, "newer", resp.Notifications[0].Title)
}

func TestNotification_GetNotificationsHandlerUnauthenticated(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/notifications", nil)

	n := handlers.Notification{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.GetNotificationsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestNotification_MarkNotificationReadHandlerBadID(t *testing.T) {
	req, _ := http.NewRequest("POST", "/api/v1/notifications/not-a-hex/read", nil)
	req = mux.SetURLVars(req, map[string]string{"notification_id": "not-a-hex"})

	n := handlers.Notification{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.MarkNotificationReadHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotification_MarkNotificationReadHandler(t *testing.T) {
	nID := primitive.NewObjectID()
	req, _ := http.NewRequest("POST", "/api/v1/notifications/"+nID.Hex()+"/read", nil)
	req = mux.SetURLVars(req, map[string]string{"notification_id": nID.Hex()})

	srh := &mocks.SingleResultHelper{}
	srh.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.Notification)
		*arg = models.Notification{ID: nID, Title: "video chat", IsRead: true}
	})

	conn := &mocks.CollectionHelper{}
	conn.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(srh)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "notifications").Return(conn)

	n := handlers.Notification{DB: databases.NewNotificationDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.MarkNotificationReadHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	notification := resp["notification"].(map[string]interface{})
	assert.Equal(t, nID.Hex(), notification["_id"])
	assert.Equal(t, true, notification["isRead"])
}

func TestNotification_MarkNotificationReadHandlerAlreadyRead(t *testing.T) {
	nID := primitive.NewObjectID()
	req, _ := http.NewRequest("POST", "/api/v1/notifications/"+nID.Hex()+"/read", nil)
	req = mux.SetURLVars(req, map[string]string{"notification_id": nID.Hex()})

	// No unread document matches, so the update misses and the store falls
	// back to a plain lookup.
	missed := &mocks.SingleResultHelper{}
	missed.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))

	found := &mocks.SingleResultHelper{}
	found.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.Notification)
		*arg = models.Notification{ID: nID, Title: "video chat", IsRead: true}
	})

	conn := &mocks.CollectionHelper{}
	conn.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(missed)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(found)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "notifications").Return(conn)

	n := handlers.Notification{DB: databases.NewNotificationDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.MarkNotificationReadHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"isRead":true`)
}

func TestNotification_MarkNotificationReadHandlerNotFound(t *testing.T) {
	nID := primitive.NewObjectID()
	req, _ := http.NewRequest("POST", "/api/v1/notifications/"+nID.Hex()+"/read", nil)
	req = mux.SetURLVars(req, map[string]string{"notification_id": nID.Hex()})

	missed := &mocks.SingleResultHelper{}
	missed.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))

	conn := &mocks.CollectionHelper{}
	conn.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(missed)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(missed)
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "notifications").Return(conn)

	n := handlers.Notification{DB: databases.NewNotificationDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.MarkNotificationReadHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
