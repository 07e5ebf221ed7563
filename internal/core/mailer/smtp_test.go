package mailer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSMTP(t *testing.T, o Opts) *SMTP {
	t.Helper()
	if o.Host == "" {
		o.Host = "smtp.example.com"
	}
	s, err := NewSMTP(o, nil)
	require.NoError(t, err)
	return s
}

func render(t *testing.T, s *SMTP, m Message) string {
	t.Helper()
	msg, err := s.build(m)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestNewSMTP_DefaultsRecipientToAccount(t *testing.T) {
	s := newTestSMTP(t, Opts{Username: "ops@example.com", Password: "pw"})
	require.Equal(t, "ops@example.com", s.from)
	require.Equal(t, "ops@example.com", s.to)

	s = newTestSMTP(t, Opts{Username: "ops@example.com", To: "inbox@example.com"})
	require.Equal(t, "inbox@example.com", s.to)
}

func TestNewSMTP_RequiresHost(t *testing.T) {
	_, err := NewSMTP(Opts{Username: "ops@example.com"}, nil)
	require.Error(t, err)
}

func TestBuild_Headers(t *testing.T) {
	s := newTestSMTP(t, Opts{Username: "ops@example.com"})
	raw := render(t, s, Message{
		ReplyTo: "visitor@example.com",
		Subject: "Contact Form Message from Ann",
		Body:    "hello there",
	})

	require.Contains(t, raw, "Subject: Contact Form Message from Ann")
	require.Contains(t, raw, "Reply-To:")
	require.Contains(t, raw, "visitor@example.com")
	require.Contains(t, raw, "ops@example.com")
	require.Contains(t, raw, "hello there")
}

func TestBuild_InvalidReplyToIsSkipped(t *testing.T) {
	s := newTestSMTP(t, Opts{Username: "ops@example.com"})
	raw := render(t, s, Message{ReplyTo: "not an address", Subject: "s", Body: "b"})
	require.NotContains(t, raw, "Reply-To:")
}

func TestBuild_MissingAccountFails(t *testing.T) {
	s := newTestSMTP(t, Opts{})
	_, err := s.build(Message{Subject: "s"})
	require.Error(t, err)
}
