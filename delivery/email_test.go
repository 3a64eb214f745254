package delivery

import (
	"bytes"
	"io"
	"testing"

	"github.com/go-gomail/gomail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageHeaders(t *testing.T) {
	msg := NewMessage("billing@example.com", "client@example.com", "Invoice INV-1", "<p>hi</p>",
		Attachment{Filename: "INV-1.pdf", Data: []byte("%PDF-1.3")})

	assert.Equal(t, []string{"billing@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"client@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Invoice INV-1"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `filename="INV-1.pdf"`)
}

func TestMailerSend(t *testing.T) {
	var got []string
	m := NewMailer(SMTPConfig{Host: "localhost", Port: 25}, "billing@example.com")
	m.sender = gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		got = append(got, from)
		got = append(got, to...)
		return nil
	})

	require.NoError(t, m.Send("client@example.com", "Invoice", "<p>body</p>"))
	assert.Equal(t, []string{"billing@example.com", "client@example.com"}, got)
}

func TestMailerSendRequiresRecipient(t *testing.T) {
	m := NewMailer(SMTPConfig{}, "billing@example.com")
	assert.ErrorIs(t, m.Send("", "Invoice", ""), ErrNoRecipient)
}
