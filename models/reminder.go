// models/reminder.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reminder is a per-user reminder record. Count and DaysBefore control
// how often and how early the mobile client notifies before EndTime.
type Reminder struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Description string             `json:"description" bson:"description"`
	Count       int                `json:"count" bson:"count"`
	DaysBefore  []int              `json:"daysBefore" bson:"daysBefore"`
	EndTime     *time.Time         `json:"endTime,omitempty" bson:"endTime,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

const (
	// DefaultReminderCount is applied when the client omits count.
	DefaultReminderCount = 3
	// DefaultDaysBefore is applied when the client omits daysBefore.
	DefaultDaysBefore = 3
)
