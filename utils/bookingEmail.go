package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// SendBookingConfirmationEmail mails the patient after a successful booking.
// Delivery is best effort; callers run it off the request path.
func SendBookingConfirmationEmail(email, patientName, doctorName string, at time.Time) error {
	fromEmail := os.Getenv("SMTP_USER")

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Appointment Confirmation")

	when := at.Format("Monday, 2 January 2006 at 15:04")
	m.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\nYour appointment with Dr. %s is confirmed for %s.\n\nIf you need to change it, please cancel or rebook from your dashboard.",
		patientName, doctorName, when))

	htmlBody := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Appointment Confirmation</title>
		<style>
			body { font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0; }
			.container { background-color: #ffffff; margin: 20px auto; padding: 20px; border-radius: 8px; max-width: 600px; }
			h1 { color: #333333; }
			p { color: #666666; }
			.when { font-weight: bold; color: #007bff; }
		</style>
	</head>
	<body>
		<div class="container">
			<h1>Appointment Confirmed</h1>
			<p>Dear ` + patientName + `,</p>
			<p>Your appointment with Dr. ` + doctorName + ` is confirmed for:</p>
			<p class="when">` + when + `</p>
			<p>If you need to change it, please cancel or rebook from your dashboard.</p>
		</div>
	</body>
	</html>
	`
	m.AddAlternative("text/html", htmlBody)

	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		log.Printf("Invalid SMTP_PORT value: %v", err)
		return fmt.Errorf("invalid SMTP_PORT value: %w", err)
	}

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}
