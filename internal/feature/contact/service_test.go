package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"hifi-account-api/internal/core/mailer"
	"hifi-account-api/internal/domain"
)

type fakeSender struct {
	got []mailer.Message
	err error
}

func (f *fakeSender) Send(_ context.Context, m mailer.Message) error {
	f.got = append(f.got, m)
	return f.err
}

func TestRelay(t *testing.T) {
	f := &fakeSender{}
	s := NewService(f, nil)

	err := s.Relay(context.Background(), Input{Name: "Bo", Email: "bo@x.com", Message: "hi"})
	require.NoError(t, err)
	require.Len(t, f.got, 1)
	assert.Equal(t, mailer.Message{ReplyTo: "bo@x.com", Subject: "Contact Form Message from Bo", Body: "hi"}, f.got[0])
}

func TestRelay_EmptyInputStillSends(t *testing.T) {
	f := &fakeSender{}
	require.NoError(t, NewService(f, nil).Relay(context.Background(), Input{}))
	require.Len(t, f.got, 1)
	assert.Equal(t, "Contact Form Message from ", f.got[0].Subject)
}

func TestRelay_FailureHidesDetail(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	f := &fakeSender{err: errors.New("535 auth failed")}
	s := NewService(f, zap.New(core))

	err := s.Relay(context.Background(), Input{Name: "Bo", Email: "bo@x.com", Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, domain.KindExternal, domain.KindOf(err))
	assert.Equal(t, "Failed to send email. Please try again later.", err.Error())
	assert.ErrorIs(t, err, f.err)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "contact email failed", logs.All()[0].Message)
}
