package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/api"
	"github.com/mentorlink/mentorlink-api/api/scheduler"
	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/models"
	"github.com/mentorlink/mentorlink-api/realtime"
)

// App stores the router, db connection and the realtime hub, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Hub      *realtime.Hub
	Relay    *realtime.NotificationRelay
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	chat := Chat{DB: databases.NewChatDatabase(a.dbHelper), UDB: databases.NewUserDatabase(a.dbHelper), Hub: a.Hub}
	teamChat := TeamChat{DB: databases.NewTeamChatDatabase(a.dbHelper)}
	notification := Notification{DB: databases.NewNotificationDatabase(a.dbHelper)}
	videoChat := VideoChat{
		DB:    databases.NewVideoChatDatabase(a.dbHelper),
		UDB:   databases.NewUserDatabase(a.dbHelper),
		TDB:   databases.NewTaskDatabase(a.dbHelper),
		Hub:   a.Hub,
		Relay: a.Relay,
	}
	task := Task{
		SDB:   databases.NewSubmissionDatabase(a.dbHelper),
		TDB:   databases.NewTaskDatabase(a.dbHelper),
		UDB:   databases.NewUserDatabase(a.dbHelper),
		Relay: a.Relay,
	}
	rt := Realtime{Hub: a.Hub, UDB: databases.NewUserDatabase(a.dbHelper)}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// The websocket endpoint authenticates with a short-lived ticket in the
	// query string instead of the auth middleware, browsers cannot set
	// headers on websocket dials. It also lives outside the timeout
	// middleware, which cannot wrap a hijacked long-lived connection.
	r.Path("/api/v1/ws").Handler(http.HandlerFunc(rt.ServeWS)).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/tasks/{task_id}/chat-history", api.Middleware(http.HandlerFunc(chat.ChatHistoryHandler))).Methods("GET")
	apiCreate.Handle("/tasks/{task_id}/contact-mentor", api.Middleware(http.HandlerFunc(chat.ContactMentorHandler))).Methods("POST")
	apiCreate.Handle("/tasks/{task_id}/request-video-chat", api.Middleware(http.HandlerFunc(videoChat.RequestVideoChatHandler))).Methods("POST")
	apiCreate.Handle("/tasks/{task_id}/complete", api.Middleware(http.HandlerFunc(task.CompleteTaskHandler))).Methods("POST")
	apiCreate.Handle("/video-chat/{session_id}/complete", api.Middleware(http.HandlerFunc(videoChat.CompleteVideoChatHandler))).Methods("POST")

	apiCreate.Handle("/team/{team_id}/chat-history", api.Middleware(http.HandlerFunc(teamChat.TeamChatHistoryHandler))).Methods("GET")

	apiCreate.Handle("/notifications", api.Middleware(http.HandlerFunc(notification.GetNotificationsHandler))).Methods("GET")
	apiCreate.Handle("/notifications/{notification_id}/read", api.Middleware(http.HandlerFunc(notification.MarkNotificationReadHandler))).Methods("POST")

	apiCreate.Handle("/realtime/ticket", api.Middleware(http.HandlerFunc(rt.TicketHandler))).Methods("GET")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("mentorlink-api has connected to the database")

	a.Hub = realtime.NewHub(
		realtime.NewPresenceTracker(),
		realtime.NewRoomRegistry(),
		databases.NewChatDatabase(a.dbHelper),
		databases.NewTeamChatDatabase(a.dbHelper),
	)
	a.Relay = realtime.NewNotificationRelay(databases.NewNotificationDatabase(a.dbHelper), a.Hub)

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// NewScheduler wires the background job runner against the app's database
// connection and realtime hub. Initialize must have run first.
func (a *App) NewScheduler() *scheduler.Scheduler {
	return scheduler.NewScheduler(
		databases.NewTaskDatabase(a.dbHelper),
		databases.NewSubmissionDatabase(a.dbHelper),
		databases.NewTeamChatDatabase(a.dbHelper),
		databases.NewTeamDatabase(a.dbHelper),
		databases.NewUserDatabase(a.dbHelper),
		a.Hub,
	)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
