// controllers/reminder_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/reminderapp/reminder_backend/middleware"
	"github.com/reminderapp/reminder_backend/models"
)

// ReminderController handles the reminder record store. All routes sit
// behind the JWT middleware and operate on the user id in the path,
// which must match the authenticated user.
type ReminderController struct {
	reminders ReminderStore
	logger    *log.Logger
}

func NewReminderController(reminders ReminderStore) *ReminderController {
	return &ReminderController{
		reminders: reminders,
		logger:    log.New(os.Stdout, "[REMINDER] ", log.LstdFlags),
	}
}

// AddReminder creates a reminder for the user in the path.
func (rc *ReminderController) AddReminder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	userID, ok, resp := rc.pathUser(c)
	if !ok {
		return resp
	}

	var req models.AddReminderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Description is required",
		})
	}

	reminder := &models.Reminder{
		UserID:      userID,
		Description: req.Description,
		Count:       req.Count,
		DaysBefore:  req.DaysBefore,
		EndTime:     req.EndTime,
	}
	if reminder.Count == 0 {
		reminder.Count = models.DefaultReminderCount
	}
	if len(reminder.DaysBefore) == 0 {
		reminder.DaysBefore = []int{models.DefaultDaysBefore}
	}

	if err := rc.reminders.Create(ctx, reminder); err != nil {
		rc.logger.Printf("failed to create reminder: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Reminder added successfully",
		Data:    reminder,
	})
}

// ListReminders returns the user's reminders, newest first.
func (rc *ReminderController) ListReminders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	userID, ok, resp := rc.pathUser(c)
	if !ok {
		return resp
	}

	reminders, err := rc.reminders.FindByUser(ctx, userID)
	if err != nil {
		rc.logger.Printf("failed to list reminders: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Data:    reminders,
	})
}

// pathUser parses the :id path parameter and checks it against the
// token's user id so one account cannot touch another's reminders.
// When ok is false the error response has already been written.
func (rc *ReminderController) pathUser(c echo.Context) (primitive.ObjectID, bool, error) {
	id := c.Param("id")
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false, c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid user id",
		})
	}

	tokenUserID, err := middleware.ExtractUserID(c)
	if err != nil || tokenUserID != id {
		return primitive.NilObjectID, false, c.JSON(http.StatusForbidden, models.Response{
			Success: false,
			Message: "You can only manage your own reminders",
		})
	}

	return userID, true, nil
}
