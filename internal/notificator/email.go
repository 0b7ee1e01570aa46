package notificator

import (
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/kyro-pay/gateway/pkg/logger"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailNotificator struct {
	logger *logger.Logger

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPSender string

	SMTPAuth smtp.Auth

	sendMail sendMailFunc
}

func NewEmailNotificator(logger *logger.Logger, SMTPHost string, SMTPPort int, SMTPUser string, SMTPPassword string, SMTPSender string) *EmailNotificator {
	auth := smtp.PlainAuth(
		"",
		SMTPUser,
		SMTPPassword,
		SMTPHost,
	)

	return &EmailNotificator{
		logger:     logger,
		SMTPAuth:   auth,
		SMTPHost:   SMTPHost,
		SMTPPort:   SMTPPort,
		SMTPUser:   SMTPUser,
		SMTPSender: SMTPSender,
		sendMail:   smtp.SendMail,
	}
}

func (e *EmailNotificator) SendNotification(to, subject, message string) error {
	addr := fmt.Sprintf("%s:%s", e.SMTPHost, strconv.Itoa(e.SMTPPort))
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		e.SMTPSender, // From address
		to,           // To address
		subject,      // Subject
		message,      // Email body
	)
	if err := e.sendMail(addr, e.SMTPAuth, e.SMTPSender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
