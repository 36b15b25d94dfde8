// controllers/controllers.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/reminderapp/reminder_backend/models"
	"github.com/reminderapp/reminder_backend/services"
	"github.com/reminderapp/reminder_backend/utils"
)

// UserStore is the persistence contract the controllers need for user
// accounts. Implemented by repositories.UserRepository.
type UserStore interface {
	FindByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error
}

// ReminderStore is the persistence contract for reminder records.
// Implemented by repositories.ReminderRepository.
type ReminderStore interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Reminder, error)
}

// devMode reports whether the server runs in development mode, in
// which case OTP codes are echoed in responses for the mobile client
// developers.
func devMode() bool {
	env := os.Getenv("ENV")
	return env == "development" || env == "dev"
}

// otpErrorResponse translates OTP lifecycle errors into the HTTP
// responses the client expects. Unexpected errors become bare 500s;
// details stay in the server log.
func otpErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrOTPNotFound):
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "OTP not found or already used. Please request a new OTP",
		})
	case errors.Is(err, services.ErrOTPExpired):
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "OTP has expired. Please request a new OTP",
		})
	case errors.Is(err, services.ErrOTPMismatch):
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid OTP",
		})
	case errors.Is(err, utils.ErrTooManyAttempts):
		return c.JSON(http.StatusTooManyRequests, models.Response{
			Success: false,
			Message: "Too many OTP attempts. Please try again later",
		})
	default:
		c.Logger().Errorf("OTP operation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error",
		})
	}
}
