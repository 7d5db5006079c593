// Package email sends license notifications over SMTP.
package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"
)

// ErrEmailServiceNotConfigured is returned when no SMTP host is configured.
var ErrEmailServiceNotConfigured = errors.New("email service not configured")

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	RenewURL    string // Link put into reminders, e.g. the store's account page
}

// sender is the part of gomail.Dialer the service uses.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer sender
}

func NewSMTPEmailService(config SMTPConfig) (*SMTPEmailService, error) {
	if config.Host == "" {
		return nil, ErrEmailServiceNotConfigured
	}
	if config.Port == 0 {
		config.Port = 587
	}
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}, nil
}

type reminderData struct {
	Name     string
	Product  string
	Key      string
	Expires  string
	RenewURL string
}

var reminderHTML = template.Must(template.New("reminder").Parse(`<html>
<body>
	<h2>Your {{.Product}} license expires soon</h2>
	<p>Hi {{.Name}},</p>
	<p>The license key <code>{{.Key}}</code> expires on <strong>{{.Expires}}</strong>.</p>
	<p>Renew it to keep receiving updates{{if .RenewURL}}: <a href="{{.RenewURL}}">{{.RenewURL}}</a>{{end}}.</p>
</body>
</html>
`))

const reminderPlain = `Hi %s,

The %s license key %s expires on %s.

Renew it to keep receiving updates.
%s
`

// SendRenewalReminder tells a customer that a license key expires soon.
func (s *SMTPEmailService) SendRenewalReminder(to, name, product, key string, expires time.Time) error {
	data := reminderData{
		Name:     name,
		Product:  product,
		Key:      key,
		Expires:  expires.UTC().Format(time.DateOnly),
		RenewURL: s.config.RenewURL,
	}

	var html bytes.Buffer
	if err := reminderHTML.Execute(&html, data); err != nil {
		return fmt.Errorf("failed to render reminder: %w", err)
	}
	plain := fmt.Sprintf(reminderPlain, data.Name, data.Product, data.Key, data.Expires, data.RenewURL)

	subject := fmt.Sprintf("Your %s license expires on %s", product, data.Expires)
	return s.sendEmail(to, subject, html.String(), plain)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
