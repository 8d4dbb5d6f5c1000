package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/api"
	"github.com/mentorlink/mentorlink-api/config"
	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/models"
)

// teamChatHistoryLimit bounds team chat history queries by default.
const teamChatHistoryLimit = 50

// TeamChat exported for testing purposes
type TeamChat struct {
	DB databases.TeamChatDatabase
}

// TeamChatHistoryHandler returns the most recent team messages, reordered
// oldest first so clients can append as they render.
func (t TeamChat) TeamChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["team_id"]

	limit := int64(teamChatHistoryLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			zap.S().Warnf("invalid limit %q, using default of %v, err: %v", raw, teamChatHistoryLimit, err)
		} else {
			limit = parsed
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	dbResp, err := t.DB.FindRecentByTeam(ctx, teamID, limit)
	if err != nil {
		config.ErrorStatus("failed to get team chat history", http.StatusNotFound, w, err)
		return
	}

	// The store returns newest first; flip to chronological order.
	for i, j := 0, len(dbResp)-1; i < j; i, j = i+1, j-1 {
		dbResp[i], dbResp[j] = dbResp[j], dbResp[i]
	}
	if len(dbResp) == 0 {
		dbResp = []models.TeamMessage{}
	}

	b, err := json.Marshal(models.TeamChatHistoryResponse{Success: true, Messages: dbResp})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
