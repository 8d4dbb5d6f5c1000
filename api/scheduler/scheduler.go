package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"os"

	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/models"
	"github.com/mentorlink/mentorlink-api/realtime"
	templates "github.com/mentorlink/mentorlink-api/templates/html"
)

// reminderWindow is how far ahead of a deadline the reminder fires.
const reminderWindow = 24 * time.Hour

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron   *cron.Cron
	TDB    databases.TaskDatabase
	SDB    databases.SubmissionDatabase
	TCDB   databases.TeamChatDatabase
	TeamDB databases.TeamDatabase
	UDB    databases.UserDatabase
	Hub    realtime.RoomBroadcaster
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	tDB databases.TaskDatabase,
	sDB databases.SubmissionDatabase,
	tcDB databases.TeamChatDatabase,
	teamDB databases.TeamDatabase,
	uDB databases.UserDatabase,
	hub realtime.RoomBroadcaster,
) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		TDB:    tDB,
		SDB:    sDB,
		TCDB:   tcDB,
		TeamDB: teamDB,
		UDB:    uDB,
		Hub:    hub,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Send deadline reminders hourly so a deadline entering the 24h window
	// never waits a full day for its reminder
	_, err := s.cron.AddFunc("0 * * * *", s.SendDeadlineReminders)
	if err != nil {
		zap.S().Errorw("failed to register deadline reminder job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Deadline reminder scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Deadline reminder scheduler stopped")
}

// SendDeadlineReminders finds tasks whose deadline falls within the next 24
// hours and posts a reminder to every team that still has an in-progress
// submission for the task. Each task is reminded at most once; the task
// document carries the sent marker.
func (s *Scheduler) SendDeadlineReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	windowEnd := now.Add(reminderWindow)

	filter := bson.M{
		"deadline": bson.M{
			"$gt":  primitive.NewDateTimeFromTime(now),
			"$lte": primitive.NewDateTimeFromTime(windowEnd),
		},
		"deadlineReminderSentAt": nil,
	}
	tasks, err := s.TDB.Find(ctx, filter)
	if err != nil {
		zap.S().Errorw("failed to find tasks with upcoming deadlines", "error", err)
		return
	}
	if len(tasks) == 0 {
		return
	}
	zap.S().Infow("Running deadline reminder job", "tasks", len(tasks))

	for _, task := range tasks {
		s.remindTask(ctx, task)
	}
}

func (s *Scheduler) remindTask(ctx context.Context, task models.Task) {
	submissions, err := s.SDB.Find(ctx, bson.M{
		"taskId": task.ID.Hex(),
		"status": "in-progress",
	})
	if err != nil {
		zap.S().Errorw("failed to find submissions for task", "taskId", task.ID.Hex(), "error", err)
		return
	}

	deadline := ""
	if task.Deadline != nil {
		deadline = task.Deadline.Time().UTC().Format("Mon, 02 Jan 2006 15:04 MST")
	}

	reminded := make(map[string]struct{}, len(submissions))
	for _, submission := range submissions {
		if submission.TeamID == "" {
			continue
		}
		if _, done := reminded[submission.TeamID]; done {
			continue
		}
		reminded[submission.TeamID] = struct{}{}
		s.remindTeam(ctx, task, submission.TeamID, deadline)
	}

	if err := s.TDB.UpdateOne(ctx,
		bson.M{"_id": task.ID},
		bson.M{"$set": bson.M{"deadlineReminderSentAt": primitive.NewDateTimeFromTime(time.Now())}},
	); err != nil {
		zap.S().Errorw("failed to mark reminder sent", "taskId", task.ID.Hex(), "error", err)
	}
}

func (s *Scheduler) remindTeam(ctx context.Context, task models.Task, teamID, deadline string) {
	now := primitive.NewDateTimeFromTime(time.Now())
	msg := models.TeamMessage{
		TeamID:      teamID,
		TaskID:      task.ID.Hex(),
		SenderID:    "system",
		SenderName:  "MentorLink",
		SenderRole:  models.RoleMentor,
		Message:     "Reminder: the deadline for \"" + task.Title + "\" is less than 24 hours away.",
		MessageType: models.TeamMessageDeadlineReminder,
		CreatedAt:   now,
	}

	saved, err := s.TCDB.InsertOne(ctx, msg)
	if err != nil {
		zap.S().Errorw("failed to save deadline reminder", "teamId", teamID, "taskId", task.ID.Hex(), "error", err)
		return
	}

	s.Hub.BroadcastToRoom(realtime.TeamRoom(teamID), realtime.EventNewTeamMessage, realtime.TeamMessageBroadcast{
		ID:         saved.ID,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		Message:    msg.Message,
		SenderRole: msg.SenderRole,
		CreatedAt:  now,
		TeamID:     teamID,
	})

	s.emailTeamMembers(ctx, task, teamID, deadline)
}

func (s *Scheduler) emailTeamMembers(ctx context.Context, task models.Task, teamID, deadline string) {
	tID, err := primitive.ObjectIDFromHex(teamID)
	if err != nil {
		zap.S().Errorw("invalid team id on submission", "teamId", teamID, "error", err)
		return
	}
	team, err := s.TeamDB.FindOne(ctx, bson.M{"_id": tID})
	if err != nil {
		zap.S().Errorw("failed to find team", "teamId", teamID, "error", err)
		return
	}

	memberIDs := make([]primitive.ObjectID, 0, len(team.Members))
	for _, member := range team.Members {
		oid, err := primitive.ObjectIDFromHex(member)
		if err != nil {
			continue
		}
		memberIDs = append(memberIDs, oid)
	}
	if len(memberIDs) == 0 {
		return
	}

	users, err := s.UDB.Find(ctx, bson.M{"_id": bson.M{"$in": memberIDs}})
	if err != nil {
		zap.S().Errorw("failed to find team members", "teamId", teamID, "error", err)
		return
	}

	for _, user := range users {
		if user.Email == "" {
			continue
		}
		htmlContent := templates.RenderDeadlineReminderEmail(user.Name, task.Title, deadline)
		plainText := "The deadline for \"" + task.Title + "\" is less than 24 hours away."
		if err := s.sendEmail(user.Email, user.Name, "Deadline reminder: "+task.Title, htmlContent, plainText); err != nil {
			zap.S().Errorw("failed to send reminder email", "userId", user.ID.Hex(), "error", err)
		}
	}
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	from := mail.NewEmail("MentorLink", "no-reply@mentorlink.dev")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}
