// controllers/password_controller.go
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

	"github.com/reminderapp/reminder_backend/models"
	"github.com/reminderapp/reminder_backend/repositories"
	"github.com/reminderapp/reminder_backend/services"
	"github.com/reminderapp/reminder_backend/utils"
)

const minPasswordLength = 6

// PasswordController handles the forgot-password flow: request an OTP,
// verify it (the record flips to verified and persists), then reset the
// password, which consumes the record.
type PasswordController struct {
	users  UserStore
	otps   *services.OTPService
	logger *log.Logger
}

func NewPasswordController(users UserStore, otps *services.OTPService) *PasswordController {
	return &PasswordController{
		users:  users,
		otps:   otps,
		logger: log.New(os.Stdout, "[PASSWORD] ", log.LstdFlags),
	}
}

// RequestOTP sends a password-reset code to a registered phone number.
func (pc *PasswordController) RequestOTP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	phone, errResp := pc.boundPhone(c)
	if phone == "" {
		return errResp
	}

	if found, resp := pc.requireUser(ctx, c, phone); !found {
		return resp
	}

	otp, err := pc.otps.Request(ctx, phone, models.OTPPurposeForgotPassword)
	if err != nil {
		pc.logger.Printf("failed to issue forgot-password OTP: %v", err)
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

// VerifyOTP checks the submitted code. On match the record is marked
// verified and kept for the reset step.
func (pc *PasswordController) VerifyOTP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Phone number and OTP are required",
		})
	}

	phone, err := utils.SanitizePhone(req.PhoneNumber)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid phone number format",
		})
	}

	if err := pc.otps.Verify(ctx, phone, models.OTPPurposeForgotPassword, req.OTP); err != nil {
		return otpErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "OTP verified successfully. You can now reset your password",
	})
}

// ResetPassword sets a new password. It requires a verified OTP record
// for the phone number; the record is deleted once the password update
// has gone through.
func (pc *PasswordController) ResetPassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Phone number, new password, and confirm password are required",
		})
	}

	if req.NewPassword != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Passwords do not match",
		})
	}
	if len(req.NewPassword) < minPasswordLength {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Password must be at least 6 characters long",
		})
	}

	phone, err := utils.SanitizePhone(req.PhoneNumber)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid phone number format",
		})
	}

	if err := pc.otps.RequireVerified(ctx, phone, models.OTPPurposeForgotPassword); err != nil {
		if errors.Is(err, services.ErrOTPNotFound) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Success: false,
				Message: "Please verify OTP first before resetting password",
			})
		}
		return otpErrorResponse(c, err)
	}

	user, err := pc.users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Success: false,
				Message: "User not found",
			})
		}
		pc.logger.Printf("failed to find user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error while resetting password",
		})
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		pc.logger.Printf("failed to hash password: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error while resetting password",
		})
	}

	if err := pc.users.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		pc.logger.Printf("failed to update password: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: "Server error while resetting password",
		})
	}

	if err := pc.otps.Consume(ctx, phone, models.OTPPurposeForgotPassword); err != nil {
		// Password was already changed; the leftover record can only be
		// replayed until expiry, so log and keep going.
		pc.logger.Printf("failed to consume OTP record for %s: %v", phone, err)
	}

	if user.Email != "" {
		go func(email, username string) {
			if err := utils.SendPasswordChangedEmail(email, username); err != nil {
				pc.logger.Printf("failed to send password-changed email: %v", err)
			}
		}(user.Email, user.Username)
	}

	return c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Password reset successfully. You can now login with your new password",
	})
}

// ResendOTP re-issues the reset code, subject to the resend cooldown.
func (pc *PasswordController) ResendOTP(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	phone, errResp := pc.boundPhone(c)
	if phone == "" {
		return errResp
	}

	if found, resp := pc.requireUser(ctx, c, phone); !found {
		return resp
	}

	otp, err := pc.otps.Resend(ctx, phone, models.OTPPurposeForgotPassword)
	if err != nil {
		var cooldown *services.CooldownError
		if errors.As(err, &cooldown) {
			return c.JSON(http.StatusTooManyRequests, models.Response{
				Success: false,
				Message: fmt.Sprintf("Please wait %d seconds before requesting a new OTP", cooldown.Seconds),
			})
		}
		pc.logger.Printf("failed to resend forgot-password OTP: %v", err)
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

// boundPhone binds and sanitizes the single phone-number request body.
// On failure the second return value is the JSON error response already
// written to the client and the phone comes back empty.
func (pc *PasswordController) boundPhone(c echo.Context) (string, error) {
	var req models.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return "", c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return "", c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Phone number is required",
		})
	}

	phone, err := utils.SanitizePhone(req.PhoneNumber)
	if err != nil {
		return "", c.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: "Invalid phone number format",
		})
	}
	return phone, nil
}

// requireUser answers 404 when no account exists for the phone number.
// The flow may only continue when found is true; otherwise the error
// response has already been written.
func (pc *PasswordController) requireUser(ctx context.Context, c echo.Context, phone string) (bool, error) {
	_, err := pc.users.FindByPhone(ctx, phone)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return false, c.JSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: "User with this phone number does not exist",
		})
	}
	pc.logger.Printf("failed to check user: %v", err)
	return false, c.JSON(http.StatusInternalServerError, models.Response{
		Success: false,
		Message: "Server error",
	})
}
