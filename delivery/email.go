// Package delivery sends rendered invoices by email.
package delivery

import (
	"errors"
	"io"

	"github.com/go-gomail/gomail"
)

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Attachment is an in-memory file attached to a message.
type Attachment struct {
	Filename string
	Data     []byte
}

var ErrNoRecipient = errors.New("delivery: recipient address is required")

// NewMessage builds a message with the given attachments.
func NewMessage(from, to, subject, htmlBody string, attachments ...Attachment) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	for _, a := range attachments {
		data := a.Data
		msg.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	return msg
}

// Mailer sends messages through one SMTP server.
type Mailer struct {
	From   string
	sender gomail.Sender
	dialer *gomail.Dialer
}

// NewMailer returns a Mailer that dials cfg for every Send.
func NewMailer(cfg SMTPConfig, from string) *Mailer {
	return &Mailer{
		From:   from,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send emails the attachments to a single recipient.
func (m *Mailer) Send(to, subject, htmlBody string, attachments ...Attachment) error {
	if to == "" {
		return ErrNoRecipient
	}
	msg := NewMessage(m.From, to, subject, htmlBody, attachments...)
	if m.sender != nil {
		return gomail.Send(m.sender, msg)
	}
	return m.dialer.DialAndSend(msg)
}
