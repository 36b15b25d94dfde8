// controllers/auth_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reminderapp/reminder_backend/middleware"
	"github.com/reminderapp/reminder_backend/models"
	"github.com/reminderapp/reminder_backend/repositories"
	"github.com/reminderapp/reminder_backend/utils"
)

// AuthController handles login for registered accounts.
type AuthController struct {
	users  UserStore
	logger *log.Logger
}

func NewAuthController(users UserStore) *AuthController {
	return &AuthController{
		users:  users,
		logger: log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
	}
}

// Login authenticates with phone number and password, answering with a
// bearer token that is also set as an httpOnly cookie for clients that
// prefer cookie auth.
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Phone number and password are required",
		})
	}

	phone, err := utils.SanitizePhone(req.PhoneNumber)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid phone number format",
		})
	}

	user, err := ac.users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: "Invalid phone number or password",
			})
		}
		ac.logger.Printf("failed to find user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error",
		})
	}

	if err := utils.CheckPassword(req.Password, user.Password); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: "Invalid phone number or password",
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.PhoneNumber)
	if err != nil {
		ac.logger.Printf("failed to generate token: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error",
		})
	}

	cookie := &http.Cookie{
		Name:     "token",
		Value:    token,
		HttpOnly: true,
		Secure:   os.Getenv("ENV") == "production",
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		Path:     "/",
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Token:   token,
	})
}
