package realtime

import (
	"context"

	"github.com/mentorlink/mentorlink-api/databases"
	"github.com/mentorlink/mentorlink-api/models"
)

// RoomBroadcaster is the fan-out surface the relay needs from the hub.
type RoomBroadcaster interface {
	BroadcastToRoom(room, event string, data interface{})
}

// NotificationRelay persists notifications and pushes them to the recipient's
// personal room when they are online. The push is best-effort; the stored
// record is what the recipient finds on their next fetch.
type NotificationRelay struct {
	db  databases.NotificationDatabase
	hub RoomBroadcaster
}

// NewNotificationRelay wires a relay with its store and broadcaster.
func NewNotificationRelay(db databases.NotificationDatabase, hub RoomBroadcaster) *NotificationRelay {
	return &NotificationRelay{db: db, hub: hub}
}

// Notify persists n and then pushes event to room. The payload builder
// receives the stored notification so pushes can carry its id. A room nobody
// joined means the push silently reaches no one; the insert error is the only
// failure surfaced to the caller.
func (r *NotificationRelay) Notify(ctx context.Context, n models.Notification, room, event string, payload func(saved models.Notification) interface{}) (models.Notification, error) {
	saved, err := r.db.InsertOne(ctx, n)
	if err != nil {
		return models.Notification{}, err
	}
	r.hub.BroadcastToRoom(room, event, payload(saved))
	return saved, nil
}
