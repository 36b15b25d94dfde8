// routes/routes.go
package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/reminderapp/reminder_backend/controllers"
	"github.com/reminderapp/reminder_backend/middleware"
)

// SetupRoutes wires all endpoints. The registration and forgot-password
// groups are public; the reminder group requires a valid token.
func SetupRoutes(
	e *echo.Echo,
	registerController *controllers.RegisterController,
	authController *controllers.AuthController,
	passwordController *controllers.PasswordController,
	reminderController *controllers.ReminderController,
) {
	// Registration: OTP first, account on verify.
	register := e.Group("/register")
	register.POST("/send-otp", registerController.SendOTP)
	register.POST("/verify", registerController.Verify)
	register.POST("/resend-otp", registerController.ResendOTP)

	e.POST("/login", authController.Login)

	// Forgot password: request, verify, reset, resend.
	forgotPassword := e.Group("/forgot-password")
	forgotPassword.POST("/request-otp", passwordController.RequestOTP)
	forgotPassword.POST("/verify-otp", passwordController.VerifyOTP)
	forgotPassword.POST("/reset-password", passwordController.ResetPassword)
	forgotPassword.POST("/resend-otp", passwordController.ResendOTP)

	// Reminders, scoped to the authenticated user.
	reminders := e.Group("/addReminder")
	reminders.Use(middleware.JWTMiddleware())
	reminders.POST("/:id", reminderController.AddReminder)
	reminders.GET("/:id", reminderController.ListReminders)
}
