package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/api"
	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/models"
	"github.com/mentorlink/mentorlink-api/realtime"
)

// Chat exported for testing purposes
type Chat struct {
	DB  databases.ChatDatabase
	UDB databases.UserDatabase
	Hub realtime.RoomBroadcaster
}

type contactMentorRequest struct {
	Message  string `json:"message"`
	MentorID string `json:"mentorId"`
}

type contactMentorResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Chat    models.ChatMessage `json:"chat"`
}

// ChatHistoryHandler returns the full chat history for a task, oldest first.
// An optional limit query param bounds the result; the default is unbounded.
func (c Chat) ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["task_id"]

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			zap.S().Warnf("invalid limit %q, returning full history, err: %v", raw, err)
		} else {
			limit = parsed
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := c.DB.FindByTask(ctx, taskID, limit)
	if err != nil {
		config.ErrorStatus("failed to get chat history", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.ChatMessage{}
	}

	b, err := json.Marshal(models.ChatHistoryResponse{Success: true, Messages: dbResp})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ContactMentorHandler persists a direct message to the task mentor and emits
// a mentor-message event to the task room.
func (c Chat) ContactMentorHandler(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["task_id"]

	var req contactMentorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" || req.MentorID == "" {
		config.ErrorStatus("message and mentorId are required", http.StatusBadRequest, w, errors.New("missing required fields"))
		return
	}

	user, err := currentUser(r, c.UDB)
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	msg := models.ChatMessage{
		TaskID:     taskID,
		SenderID:   user.ID.Hex(),
		Message:    req.Message,
		SenderName: user.Name,
		SenderRole: user.Role,
		CreatedAt:  now,
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	saved, err := c.DB.InsertOne(ctx, msg)
	if err != nil {
		config.ErrorStatus("failed to send message", http.StatusInternalServerError, w, err)
		return
	}

	c.Hub.BroadcastToRoom(realtime.TaskRoom(taskID), realtime.EventMentorMessage, map[string]interface{}{
		"senderId":   user.ID.Hex(),
		"senderName": user.Name,
		"message":    req.Message,
		"timestamp":  time.Now(),
	})

	b, err := json.Marshal(contactMentorResponse{Success: true, Message: "Message sent to mentor", Chat: saved})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
