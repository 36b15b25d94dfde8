// models/auth.go
package models

import "time"

// Response is the common JSON envelope for all endpoints. Optional
// fields are omitted when empty so each handler answers with exactly
// the shape the mobile client expects.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	OTP     string      `json:"otp,omitempty"`
	Token   string      `json:"token,omitempty"`
	User    *User       `json:"user,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SendOTPRequest starts the registration or password-reset flow.
type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// VerifyRegistrationRequest completes signup: the OTP is consumed and
// the account created in the same step.
type VerifyRegistrationRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
}

// LoginRequest authenticates with phone number and password.
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// VerifyOTPRequest checks a forgot-password code. On success the record
// flips to verified and stays until the reset step consumes it.
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
}

// ResetPasswordRequest sets a new password after OTP verification.
type ResetPasswordRequest struct {
	PhoneNumber     string `json:"phoneNumber" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// AddReminderRequest creates a reminder for the authenticated user.
type AddReminderRequest struct {
	Description string     `json:"description" validate:"required"`
	Count       int        `json:"count,omitempty"`
	DaysBefore  []int      `json:"daysBefore,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
}
