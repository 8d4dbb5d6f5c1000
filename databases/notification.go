package databases

// go generate: mockery --name NotificationDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorlink/mentorlink-api/models"
)

const notificationName = "notifications"

// NotificationDatabase contains the methods to use with the notification database
type NotificationDatabase interface {
	InsertOne(ctx context.Context, notification models.Notification) (models.Notification, error)
	FindByUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
}

type notificationDatabase struct {
	db DatabaseHelper
}

// NewNotificationDatabase initializes a new instance of notification database with the provided db connection
func NewNotificationDatabase(db DatabaseHelper) NotificationDatabase {
	return &notificationDatabase{
		db: db,
	}
}

func (n *notificationDatabase) InsertOne(ctx context.Context, notification models.Notification) (models.Notification, error) {
	res, err := n.db.Collection(notificationName).InsertOne(ctx, notification)
	if err != nil {
		return models.Notification{}, err
	}
	if oid, ok := res.Decode().(primitive.ObjectID); ok {
		notification.ID = oid
	}
	return notification, nil
}

// FindByUser returns the newest notifications for a user, newest first.
func (n *notificationDatabase) FindByUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	curr, err := n.db.Collection(notificationName).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	var notifications []models.Notification
	if err := curr.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips isRead and sets readAt in a single update. Marking an
// already-read notification is a no-op that returns the stored document
// unchanged, so readAt never moves once set.
func (n *notificationDatabase) MarkRead(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	now := primitive.NewDateTimeFromTime(time.Now())
	after := options.After
	opts := &options.FindOneAndUpdateOptions{ReturnDocument: &after}

	notification := &models.Notification{}
	err := n.db.Collection(notificationName).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "readAt": now}},
		opts,
	).Decode(notification)
	if err == nil {
		return notification, nil
	}

	// Already read (or missing): fall back to a plain lookup.
	err = n.db.Collection(notificationName).FindOne(ctx, bson.M{"_id": id}).Decode(notification)
	if err != nil {
		return nil, err
	}
	return notification, nil
}
