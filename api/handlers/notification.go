package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mentorlink/mentorlink-api/api"
	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/models"
)

// notificationListLimit caps how many notifications the list endpoint
// returns. There is no pagination cursor; older entries age out of view.
const notificationListLimit = 20

// Notification exported for testing purposes
type Notification struct {
	DB databases.NotificationDatabase
}

type markReadResponse struct {
	Success      bool                `json:"success"`
	Notification models.Notification `json:"notification"`
}

// GetNotificationsHandler returns the caller's newest notifications.
func (n Notification) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	info := api.UserFromContext(r.Context())
	if info == nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, fmt.Errorf("no authenticated user on request"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := n.DB.FindByUser(ctx, info.ID(), notificationListLimit)
	if err != nil {
		config.ErrorStatus("failed to get notifications", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Notification{}
	}

	b, err := json.Marshal(models.NotificationListResponse{Success: true, Notifications: dbResp})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MarkNotificationReadHandler flips a notification to read. Re-marking an
// already-read notification returns the stored state unchanged.
func (n Notification) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["notification_id"]

	nID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := n.DB.MarkRead(ctx, nID)
	if err != nil {
		config.ErrorStatus("failed to get notification by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(markReadResponse{Success: true, Notification: *dbResp})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
