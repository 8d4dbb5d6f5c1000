package handlers

import (
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mentorlink/mentorlink-api/api"
	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/models"
)

// currentUser resolves the authenticated caller to their user document. The
// auth middleware stores the auth info; the document fills in name and role
// for payloads the frontend renders directly.
func currentUser(r *http.Request, udb databases.UserDatabase) (*models.User, error) {
	info := api.UserFromContext(r.Context())
	if info == nil {
		return nil, fmt.Errorf("no authenticated user on request")
	}
	oid, err := primitive.ObjectIDFromHex(info.ID())
	if err != nil {
		return nil, fmt.Errorf("invalid user id in auth token: %w", err)
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	return udb.FindOne(ctx, bson.M{"_id": oid})
}
