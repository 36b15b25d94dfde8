// repositories/reminder_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reminderapp/reminder_backend/config"
	"github.com/reminderapp/reminder_backend/models"
)

type ReminderRepository struct {
	collection *mongo.Collection
}

func NewReminderRepository(client *mongo.Client) *ReminderRepository {
	return &ReminderRepository{
		collection: config.GetCollection(client, "reminders"),
	}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	reminder.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, reminder)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		reminder.ID = id
	}
	return nil
}

// FindByUser returns the user's reminders, newest first.
func (r *ReminderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Reminder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reminders := []models.Reminder{}
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}
