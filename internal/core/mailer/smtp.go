package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Message 发件人/收件人由 SMTP 配置固定，这里只带可变部分
type Message struct {
	ReplyTo string
	Subject string
	Body    string // 纯文本
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type Opts struct {
	Host     string
	Port     int
	Username string // 同时作为 From
	Password string
	To       string // 为空则发给 Username 自己
	Timeout  time.Duration
}

type SMTP struct {
	client *mail.Client
	from   string
	to     string
	log    *zap.Logger
}

func NewSMTP(o Opts, l *zap.Logger) (*SMTP, error) {
	if l == nil {
		l = zap.NewNop()
	}
	if o.Port == 0 {
		o.Port = 587
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	c, err := mail.NewClient(o.Host,
		mail.WithPort(o.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(o.Username),
		mail.WithPassword(o.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(o.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	to := o.To
	if to == "" {
		to = o.Username
	}
	return &SMTP{client: c, from: o.Username, to: to, log: l}, nil
}

func (s *SMTP) Send(ctx context.Context, m Message) error {
	msg, err := s.build(m)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// build ReplyTo 解析失败时只记 warn，不阻止发送
func (s *SMTP) build(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("from %q: %w", s.from, err)
	}
	if err := msg.To(s.to); err != nil {
		return nil, fmt.Errorf("to %q: %w", s.to, err)
	}
	if m.ReplyTo != "" {
		if err := msg.ReplyTo(m.ReplyTo); err != nil {
			s.log.Warn("reply-to ignored", zap.String("reply_to", m.ReplyTo), zap.Error(err))
		}
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	return msg, nil
}
