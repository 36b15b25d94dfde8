// utils/email_service.go
package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendPasswordChangedEmail notifies a user that their password was
// reset through the forgot-password flow. Only called for accounts
// that have an email on file; delivery is best effort.
func SendPasswordChangedEmail(email, username string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromEmail := os.Getenv("FROM_EMAIL")

	if smtpHost == "" || smtpPortStr == "" || smtpUser == "" || smtpPass == "" || fromEmail == "" {
		return fmt.Errorf("missing SMTP configuration")
	}

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}

	subject := "Your password was changed"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Password Changed</h2>
			<p>Hello %s,</p>
			<p>The password for your reminder app account was just reset using the phone number verification flow.</p>
			<p>If this was you, no further action is needed. If you did not request this change, please reset your password again immediately.</p>
			<p>Thank you,<br>The Reminder App Team</p>
		</body>
		</html>
	`, username)

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
