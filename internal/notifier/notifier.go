package notifier

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"stride/config"
)

// Sender delivers a message to a recipient. The schedule service only ever
// hands it a recipient, a subject and a body; template rendering and
// messaging preferences live in the main application.
type Sender interface {
	Send(recipient, subject, body string) error
}

type SMTPSender struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		logger: logger,
	}
}

func (s *SMTPSender) Send(recipient, subject, body string) error {
	if s.cfg.Host == "" {
		s.logger.Warn("smtp is not configured, dropping notification",
			zap.String("recipient", recipient),
			zap.String("subject", subject),
		)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}

	return nil
}
