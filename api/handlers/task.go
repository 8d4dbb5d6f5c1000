package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mentorlink/mentorlink-api/api"
	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/models"
	"github.com/mentorlink/mentorlink-api/realtime"
)

// Task exported for testing purposes
type Task struct {
	SDB   databases.SubmissionDatabase
	TDB   databases.TaskDatabase
	UDB   databases.UserDatabase
	Relay *realtime.NotificationRelay
}

type completeTaskRequest struct {
	Notes     string `json:"notes"`
	GithubURL string `json:"githubUrl"`
}

type completeTaskResponse struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Submission models.Submission `json:"submission"`
}

// CompleteTaskHandler records a completion report on the caller's submission
// and pushes a task-completion-report event to the task's mentor.
func (t Task) CompleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["task_id"]

	var req completeTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.GithubURL) == "" {
		config.ErrorStatus("GitHub repository URL is required", http.StatusBadRequest, w, errors.New("missing githubUrl"))
		return
	}

	student, err := currentUser(r, t.UDB)
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	submission, err := t.SDB.FindOneAndUpdate(ctx,
		bson.M{"taskId": taskID, "studentId": student.ID.Hex()},
		bson.M{"$set": bson.M{
			"status":      "submitted",
			"notes":       req.Notes,
			"githubUrl":   req.GithubURL,
			"submittedAt": now,
		}},
	)
	if err != nil {
		config.ErrorStatus("submission not found", http.StatusNotFound, w, err)
		return
	}

	tID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	task, err := t.TDB.FindOne(ctx, bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("failed to get task by ID", http.StatusNotFound, w, err)
		return
	}

	notification := models.Notification{
		UserID:        task.MentorID,
		Type:          models.NotificationTaskCompletion,
		Title:         fmt.Sprintf("Task submission from %s", student.Name),
		Message:       fmt.Sprintf("%s has completed %q and submitted their work", student.Name, task.Title),
		RelatedTaskID: taskID,
		RelatedUserID: student.ID.Hex(),
		IsRead:        false,
		CreatedAt:     now,
	}
	_, err = t.Relay.Notify(ctx, notification, realtime.MentorRoom(task.MentorID), realtime.EventTaskCompletionReport,
		func(saved models.Notification) interface{} {
			return map[string]interface{}{
				"submissionId":   submission.ID,
				"studentId":      student.ID.Hex(),
				"studentName":    student.Name,
				"taskId":         taskID,
				"taskTitle":      task.Title,
				"notes":          req.Notes,
				"githubUrl":      req.GithubURL,
				"timestamp":      time.Now(),
				"notificationId": saved.ID,
			}
		})
	if err != nil {
		config.ErrorStatus("failed to create notification", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(completeTaskResponse{Success: true, Message: "Task completion reported", Submission: *submission})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
