package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mentorlink/mentorlink-api/api"
	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/models"
	"github.com/mentorlink/mentorlink-api/realtime"
)

// VideoChat exported for testing purposes
type VideoChat struct {
	DB    databases.VideoChatDatabase
	UDB   databases.UserDatabase
	TDB   databases.TaskDatabase
	Hub   realtime.RoomBroadcaster
	Relay *realtime.NotificationRelay
}

type requestVideoChatRequest struct {
	Reason   string `json:"reason"`
	MentorID string `json:"mentorId"`
}

type requestVideoChatResponse struct {
	Success      bool                    `json:"success"`
	Message      string                  `json:"message"`
	VideoRequest models.VideoChatRequest `json:"videoRequest"`
}

type completeVideoChatRequest struct {
	Duration int `json:"duration"`
}

type completeVideoChatResponse struct {
	Success   bool                    `json:"success"`
	Message   string                  `json:"message"`
	VideoChat models.VideoChatRequest `json:"videoChat"`
}

// RequestVideoChatHandler creates a pending video chat request, stores a
// notification for the mentor and pushes a video-chat-request event to their
// personal room.
func (v VideoChat) RequestVideoChatHandler(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["task_id"]

	var req requestVideoChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.Reason) == "" || req.MentorID == "" {
		config.ErrorStatus("reason and mentorId are required", http.StatusBadRequest, w, errors.New("missing required fields"))
		return
	}

	student, err := currentUser(r, v.UDB)
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, err)
		return
	}

	tID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	task, err := v.TDB.FindOne(ctx, bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("failed to get task by ID", http.StatusNotFound, w, err)
		return
	}

	sessionID := fmt.Sprintf("session_%s", uuid.New().String())
	videoRequest := models.VideoChatRequest{
		TaskID:      taskID,
		StudentID:   student.ID.Hex(),
		MentorID:    req.MentorID,
		Reason:      req.Reason,
		Status:      models.VideoChatPending,
		SessionID:   sessionID,
		RequestedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	savedRequest, err := v.DB.InsertOne(ctx, videoRequest)
	if err != nil {
		config.ErrorStatus("failed to create video chat request", http.StatusInternalServerError, w, err)
		return
	}

	notification := models.Notification{
		UserID:        req.MentorID,
		Type:          models.NotificationVideoRequest,
		Title:         fmt.Sprintf("Video chat request from %s", student.Name),
		Message:       fmt.Sprintf("%s has requested a video chat for %q: %s", student.Name, task.Title, req.Reason),
		RelatedTaskID: taskID,
		RelatedUserID: student.ID.Hex(),
		IsRead:        false,
		CreatedAt:     primitive.NewDateTimeFromTime(time.Now()),
	}
	_, err = v.Relay.Notify(ctx, notification, realtime.MentorRoom(req.MentorID), realtime.EventVideoChatRequest,
		func(saved models.Notification) interface{} {
			return map[string]interface{}{
				"videoRequestId": savedRequest.ID,
				"studentId":      student.ID.Hex(),
				"studentName":    student.Name,
				"taskId":         taskID,
				"taskTitle":      task.Title,
				"reason":         req.Reason,
				"timestamp":      time.Now(),
				"notificationId": saved.ID,
			}
		})
	if err != nil {
		config.ErrorStatus("failed to create notification", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(requestVideoChatResponse{Success: true, Message: "Video chat request sent", VideoRequest: savedRequest})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CompleteVideoChatHandler marks a session completed and notifies both
// participants' personal rooms.
func (v VideoChat) CompleteVideoChatHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	var req completeVideoChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	videoChat, err := v.DB.Complete(ctx, sessionID, req.Duration)
	if err != nil {
		config.ErrorStatus("video chat session not found", http.StatusNotFound, w, err)
		return
	}

	payload := map[string]interface{}{
		"sessionId": sessionID,
		"duration":  req.Duration,
	}
	v.Hub.BroadcastToRoom(realtime.MentorRoom(videoChat.MentorID), realtime.EventVideoChatCompleted, payload)
	v.Hub.BroadcastToRoom(realtime.StudentRoom(videoChat.StudentID), realtime.EventVideoChatCompleted, payload)

	b, err := json.Marshal(completeVideoChatResponse{Success: true, Message: "Video chat completed", VideoChat: *videoChat})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
