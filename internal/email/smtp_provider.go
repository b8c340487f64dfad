package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Config struct {
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPProvider реализация Provider поверх gomail
type SMTPProvider struct {
	config Config
	dialer *gomail.Dialer
}

// NewSMTPProvider создает новый SMTP отправитель
func NewSMTPProvider(config Config) (*SMTPProvider, error) {
	if config.SMTPHost == "" || config.FromEmail == "" {
		return nil, fmt.Errorf("smtp host and from email are required")
	}

	return &SMTPProvider{
		config: config,
		dialer: gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.Username, config.Password),
	}, nil
}

// SendVerification отправляет письмо со ссылкой подтверждения
func (p *SMTPProvider) SendVerification(to string, token string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Verify your account")
	m.SetBody("text/plain", fmt.Sprintf(
		"Welcome! Please verify your account using this token: %s", token))

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}
