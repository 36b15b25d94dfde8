package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/reminderapp/reminder_backend/config"
	"github.com/reminderapp/reminder_backend/controllers"
	"github.com/reminderapp/reminder_backend/middleware"
	"github.com/reminderapp/reminder_backend/repositories"
	"github.com/reminderapp/reminder_backend/routes"
	"github.com/reminderapp/reminder_backend/services"
	"github.com/reminderapp/reminder_backend/utils"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (optional, backs OTP attempt limiting)
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client.Disconnect(ctx)
		config.CloseRedis()
	}()

	// Create a new Echo instance
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.GET("/api", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"message": "Reminder App API is running",
		})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize repositories
	userRepo := repositories.NewUserRepository(client)
	otpRepo := repositories.NewOTPRepository(client)
	reminderRepo := repositories.NewReminderRepository(client)

	// OTP delivery: real gateway when configured, log stand-in otherwise
	var sender services.OTPSender
	if os.Getenv("SMS_GATEWAY_URL") != "" {
		sender = utils.NewSMSService()
	} else {
		sender = &utils.LogOTPSender{Logger: log.New(os.Stdout, "[SMS] ", log.LstdFlags)}
	}

	otpService := services.NewOTPService(otpRepo, sender)
	if redisClient != nil {
		otpService.WithAttemptLimiter(&utils.OTPAttemptLimiter{Client: redisClient})
	}

	// Expired OTP sweep. The TTL index does the same server-side; this
	// keeps the collection tidy between TTL monitor passes.
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go otpService.StartCleanupRoutine(cleanupCtx, 5*time.Minute)

	// Initialize controllers
	registerController := controllers.NewRegisterController(userRepo, otpService)
	authController := controllers.NewAuthController(userRepo)
	passwordController := controllers.NewPasswordController(userRepo, otpService)
	reminderController := controllers.NewReminderController(reminderRepo)

	routes.SetupRoutes(e, registerController, authController, passwordController, reminderController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	e.Logger.Fatal(e.Start("0.0.0.0:" + port))
}
