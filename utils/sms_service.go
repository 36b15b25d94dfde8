// utils/sms_service.go
package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SMSService sends OTP codes through an HTTP SMS gateway.
type SMSService struct {
	Username string
	Password string
	SenderID string
	APIPath  string
	Client   *http.Client
}

// SMSResponse represents the response from the SMS gateway
type SMSResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		MessageID string `json:"message_id"`
	} `json:"data"`
}

// NewSMSService creates an SMS service from environment configuration.
func NewSMSService() *SMSService {
	return &SMSService{
		Username: os.Getenv("SMS_GATEWAY_USER"),
		Password: os.Getenv("SMS_GATEWAY_PASS"),
		SenderID: os.Getenv("SMS_SENDER_ID"),
		APIPath:  os.Getenv("SMS_GATEWAY_URL"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendOTP delivers the code to the phone number via the gateway.
func (s *SMSService) SendOTP(phoneNumber, otp string) error {
	message := fmt.Sprintf("Your reminder app verification code is: %s. This code will expire in 10 minutes.", otp)

	params := url.Values{}
	params.Set("username", s.Username)
	params.Set("password", s.Password)
	params.Set("senderid", s.SenderID)
	params.Set("destination", phoneNumber)
	params.Set("message", message)
	// Client reference so gateway-side delivery reports can be matched
	// back to this request.
	params.Set("reference", uuid.NewString())

	fullURL := fmt.Sprintf("%s?%s", s.APIPath, params.Encode())

	req, err := http.NewRequest(http.MethodPost, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", "ReminderApp-OTP-Service/1.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SMS gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var smsResp SMSResponse
	if err := json.Unmarshal(body, &smsResp); err != nil {
		// Some gateways answer plain text on success.
		responseStr := strings.TrimSpace(string(body))
		if strings.Contains(strings.ToLower(responseStr), "success") ||
			strings.Contains(strings.ToLower(responseStr), "sent") {
			return nil
		}
		return fmt.Errorf("failed to parse SMS response: %w", err)
	}

	if smsResp.Status == "success" || smsResp.Status == "sent" {
		return nil
	}
	return fmt.Errorf("SMS sending failed: %s", smsResp.Message)
}

// LogOTPSender stands in for a real gateway during development: the
// code is only written to the server log.
type LogOTPSender struct {
	Logger *log.Logger
}

func (s *LogOTPSender) SendOTP(phoneNumber, otp string) error {
	s.Logger.Printf("OTP for %s: %s", phoneNumber, otp)
	return nil
}
