package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/api"
	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/realtime"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// Realtime exported for testing purposes
type Realtime struct {
	Hub *realtime.Hub
	UDB databases.UserDatabase
}

type ticketResponse struct {
	Ticket    string `json:"ticket"`
	ExpiresIn int    `json:"expiresIn"` // seconds
}

// TicketHandler issues a short-lived websocket connect ticket for the
// authenticated caller.
func (rt Realtime) TicketHandler(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, rt.UDB)
	if err != nil {
		config.ErrorStatus("failed to get user", http.StatusUnauthorized, w, err)
		return
	}

	ticket, err := api.NewRealtimeTicket(user.ID.Hex(), user.Role)
	if err != nil {
		config.ErrorStatus("failed to issue ticket", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(ticketResponse{Ticket: ticket, ExpiresIn: int(api.TicketTTL.Seconds())})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ServeWS upgrades a ticket-authenticated request into a realtime connection
// and blocks until the connection ends. The ticket only gates the connect;
// the connection stays anonymous to the hub until it sends identify.
func (rt Realtime) ServeWS(w http.ResponseWriter, r *http.Request) {
	ticket := r.URL.Query().Get("ticket")
	if ticket == "" {
		config.ErrorStatus("missing connect ticket", http.StatusUnauthorized, w, errors.New("ticket query param required"))
		return
	}
	userID, _, err := api.ParseRealtimeTicket(ticket)
	if err != nil {
		config.ErrorStatus("invalid connect ticket", http.StatusUnauthorized, w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "userId", userID, "error", err)
		return
	}
	zap.S().Debugw("websocket connected", "userId", userID)

	client := realtime.NewClient(rt.Hub, conn)
	client.Serve(r.Context())
	zap.S().Debugw("websocket disconnected", "userId", userID)
}
