package email

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	messages []*gomail.Message
	err      error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.messages = append(c.messages, m...)
	return c.err
}

func newTestService(cs *captureSender) *SMTPEmailService {
	return &SMTPEmailService{
		config: SMTPConfig{FromAddress: "shop@example.com", FromName: "Shop", RenewURL: "https://shop.example.com/account"},
		dialer: cs,
	}
}

func TestNewSMTPEmailService_RequiresHost(t *testing.T) {
	_, err := NewSMTPEmailService(SMTPConfig{})
	assert.ErrorIs(t, err, ErrEmailServiceNotConfigured)

	svc, err := NewSMTPEmailService(SMTPConfig{Host: "smtp.example.com"})
	require.NoError(t, err)
	assert.Equal(t, 587, svc.config.Port)
}

func TestSendRenewalReminder(t *testing.T) {
	cs := &captureSender{}
	svc := newTestService(cs)

	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SendRenewalReminder("jane@example.com", "Jane", "Widget Pro", "ABCD-1234", expires))
	require.Len(t, cs.messages, 1)

	msg := cs.messages[0]
	assert.Equal(t, []string{"jane@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Your Widget Pro license expires on 2026-03-01"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ABCD-1234")
	assert.Contains(t, buf.String(), "https://shop.example.com/account")
}

func TestSendRenewalReminder_SendError(t *testing.T) {
	cs := &captureSender{err: errors.New("connection refused")}
	svc := newTestService(cs)

	err := svc.SendRenewalReminder("jane@example.com", "Jane", "Widget", "K", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email")
}
