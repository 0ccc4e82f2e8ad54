package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"plangen/config"
)

// SendResult is returned for every delivery attempt. Success is false when
// the provider rejected the message, with Error carrying the reason.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// Send delivers a single HTML email through the configured provider.
func (s *EmailService) Send(to []string, subject string, htmlBody string) SendResult {
	if len(to) == 0 {
		return SendResult{Success: false, Error: "no recipients"}
	}

	fmt.Printf("--- Sending Email ---\nTo: %v\nSubject: %s\nProvider: %s\n", to, subject, s.cfg.EmailProvider)

	var result SendResult
	if s.cfg.EmailProvider == "sendgrid" {
		result = s.sendViaSendGrid(to, subject, htmlBody)
	} else {
		result = s.sendViaSMTP(to, subject, htmlBody)
	}

	if result.Success {
		fmt.Println("--- Email Sent Successfully ---")
	} else {
		fmt.Println("Error sending email:", result.Error)
	}
	return result
}

func (s *EmailService) sendViaSMTP(to []string, subject string, htmlBody string) SendResult {
	from := s.cfg.EmailSender

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: PlanGen <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	err := smtp.SendMail(s.cfg.SMTPHost+":"+s.cfg.SMTPPort, auth, from, to, []byte(msg))
	if err != nil {
		return SendResult{Success: false, Error: err.Error()}
	}
	return SendResult{Success: true}
}

func (s *EmailService) sendViaSendGrid(to []string, subject string, htmlBody string) SendResult {
	from := mail.NewEmail("PlanGen", s.cfg.EmailSender)

	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to[0]), "", htmlBody)
	for _, extra := range to[1:] {
		message.Personalizations[0].AddTos(mail.NewEmail("", extra))
	}

	client := sendgrid.NewSendClient(s.cfg.SendGridKey)
	resp, err := client.Send(message)
	if err != nil {
		return SendResult{Success: false, Error: err.Error()}
	}
	if resp.StatusCode >= 400 {
		return SendResult{Success: false, Error: fmt.Sprintf("sendgrid status %d: %s", resp.StatusCode, resp.Body)}
	}

	messageID := ""
	if ids, ok := resp.Headers["X-Message-Id"]; ok && len(ids) > 0 {
		messageID = ids[0]
	}
	return SendResult{Success: true, MessageID: messageID}
}

// HTML wrapper shared by all outgoing mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B2A4A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B2A4A; line-height: 1.6; }
			.content h2 { color: #1B2A4A; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #3DA35D; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #3DA35D; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>PLANGEN</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 PlanGen. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func (s *EmailService) SendWelcomeEmail(email, name string) {
	subject := "Welcome to PlanGen"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>PlanGen</strong>! Your account has been created.</p>
		<p>Pick an interest area on your dashboard and your personal roadmap will be waiting for you.</p>
	`, name)

	go s.Send([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Calendar reminder for a scheduled step
func (s *EmailService) SendReminderEmail(email, name, stepTitle, date string) {
	subject := "Reminder: " + stepTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You scheduled <strong>%s</strong> for %s and it is still open.</p>
		<div class="info-box">
			Open your roadmap to pick up where you left off.
		</div>
	`, name, stepTitle, date)

	go s.Send([]string{email}, subject, getEmailTemplate("Scheduled Step Due", body))
}

// 3. Order confirmation after a verified purchase
func (s *EmailService) SendOrderConfirmationEmail(email, productName string) {
	subject := "Order Confirmed: " + productName
	body := fmt.Sprintf(`
		<p>Thank you for your purchase of <strong>%s</strong>.</p>
		<p>Your access has been activated. Log in to start working through your roadmap.</p>
	`, productName)

	go s.Send([]string{email}, subject, getEmailTemplate("Order Confirmed", body))
}

// 4. Test email used by the admin settings page
func (s *EmailService) SendTestEmail(email string) SendResult {
	body := `
		<p>This is a test message from your PlanGen installation.</p>
		<p>If you are reading this, outgoing email is configured correctly.</p>
	`
	return s.Send([]string{email}, "PlanGen Test Email", getEmailTemplate("Email Configuration Test", body))
}
