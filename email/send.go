package email

import (
	"fmt"
	"net/smtp"

	"github.com/AustinQian/EcommerceAPI/config"
)

// SendEmail delivers a plain-text message through the configured SMTP relay.
func SendEmail(to, subject, body string) error {
	server := config.SMTPServer()
	if server == "" {
		return fmt.Errorf("SMTP_SERVER not configured")
	}

	msg := []byte(fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n\r\n"+
		"%s",
		config.FromName(), config.FromAddr(), to, subject, body))

	auth := smtp.PlainAuth("", config.SMTPUser(), config.SMTPPass(), server)

	if err := smtp.SendMail(server+":"+config.SMTPPort(), auth, config.FromAddr(), []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerificationEmail mails the email-confirmation link for a new account.
func SendVerificationEmail(to, token string) error {
	subject := "Please verify your email address"
	link := fmt.Sprintf("%s/api/auth/verify/%s", config.BaseURL(), token)
	body := fmt.Sprintf("Click the link below to verify your email address:\n\n%s\n\nThis link will expire in 24 hours.", link)
	return SendEmail(to, subject, body)
}

// SendResetEmail mails a password reset link.
func SendResetEmail(to, token string) error {
	subject := "Password Reset Request"
	link := fmt.Sprintf("%s/api/auth/reset-password/%s", config.BaseURL(), token)
	body := fmt.Sprintf("Click the link below to reset your password:\n\n%s\n\nThis link will expire in 1 hour.", link)
	return SendEmail(to, subject, body)
}
