// controllers/register_controller.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reminderapp/reminder_backend/middleware"
	"github.com/reminderapp/reminder_backend/models"
	"github.com/reminderapp/reminder_backend/repositories"
	"github.com/reminderapp/reminder_backend/services"
	"github.com/reminderapp/reminder_backend/utils"
)

// RegisterController handles the OTP-verified signup flow: an OTP is
// sent to the phone number first, and the account is only created when
// the code comes back. Verification consumes the record in the same
// step as account creation.
type RegisterController struct {
	users  UserStore
	otps   *services.OTPService
	logger *log.Logger
}

func NewRegisterController(users UserStore, otps *services.OTPService) *RegisterController {
	return &RegisterController{
		users:  users,
		otps:   otps,
		logger: log.New(os.Stdout, "[REGISTER] ", log.LstdFlags),
	}
}

// SendOTP starts registration for a phone number that is not yet taken.
func (rc *RegisterController) SendOTP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Phone number is required",
		})
	}

	phone, err := utils.SanitizePhone(req.PhoneNumber)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid phone number format",
		})
	}

	if _, err := rc.users.FindByPhone(ctx, phone); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Message: "Phone number already in use",
		})
	} else if !errors.Is(err, repositories.ErrNotFound) {
		rc.logger.Printf("failed to check phone number: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error while sending OTP",
		})
	}

	otp, err := rc.otps.Request(ctx, phone, models.OTPPurposeRegistration)
	if err != nil {
		rc.logger.Printf("failed to issue registration OTP: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error while sending OTP",
		})
	}

	resp := models.Response{
		Success: true,
		Message: "OTP sent successfully to your phone number",
	}
	if devMode() {
		resp.OTP = otp.Code
	}
	return c.JSON(http.StatusOK, resp)
}

// Verify checks the OTP and completes registration. The OTP record is
// deleted on match, so repeating the call fails with OTP-not-found.
func (rc *RegisterController) Verify(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.VerifyRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Username, password, phone number, and OTP are required",
		})
	}

	phone, err := utils.SanitizePhone(req.PhoneNumber)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid phone number format",
		})
	}
	username := utils.SanitizeInput(req.Username)

	if _, err := rc.users.FindByPhone(ctx, phone); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Message: "Phone number already in use",
		})
	} else if !errors.Is(err, repositories.ErrNotFound) {
		rc.logger.Printf("failed to check phone number: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error",
		})
	}

	if _, err := rc.users.FindByUsername(ctx, username); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Message: "Username already taken",
		})
	} else if !errors.Is(err, repositories.ErrNotFound) {
		rc.logger.Printf("failed to check username: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error",
		})
	}

	if err := rc.otps.VerifyAndConsume(ctx, phone, models.OTPPurposeRegistration, req.OTP); err != nil {
		return otpErrorResponse(c, err)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		rc.logger.Printf("failed to hash password: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error",
		})
	}

	user := &models.User{
		Username:    username,
		PhoneNumber: phone,
		Password:    hashedPassword,
	}
	if err := rc.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return c.JSON(http.StatusConflict, models.Response{
				Success: false,
				Message: "Phone number or username already in use",
			})
		}
		rc.logger.Printf("failed to create user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error",
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.PhoneNumber)
	if err != nil {
		rc.logger.Printf("failed to generate token: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	})
}

// ResendOTP re-issues the registration code, subject to the resend
// cooldown.
func (rc *RegisterController) ResendOTP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Phone number is required",
		})
	}

	phone, err := utils.SanitizePhone(req.PhoneNumber)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid phone number format",
		})
	}

	if _, err := rc.users.FindByPhone(ctx, phone); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Success: false,
			Message: "Phone number already in use",
		})
	} else if !errors.Is(err, repositories.ErrNotFound) {
		rc.logger.Printf("failed to check phone number: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error while resending OTP",
		})
	}

	otp, err := rc.otps.Resend(ctx, phone, models.OTPPurposeRegistration)
	if err != nil {
		var cooldown *services.CooldownError
		if errors.As(err, &cooldown) {
			return c.JSON(http.StatusTooManyRequests, models.Response{
				Success: false,
				Message: fmt.Sprintf("Please wait %d seconds before requesting a new OTP", cooldown.Seconds),
			})
		}
		rc.logger.Printf("failed to resend registration OTP: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error while resending OTP",
		})
	}

	resp := models.Response{
		Success: true,
		Message: "OTP resent successfully",
	}
	if devMode() {
		resp.OTP = otp.Code
	}
	return c.JSON(http.StatusOK, resp)
}
