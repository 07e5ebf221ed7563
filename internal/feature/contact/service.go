package contact

import (
	"context"

	"go.uber.org/zap"

	"hifi-account-api/internal/core/mailer"
	"hifi-account-api/internal/domain"
)

const failedMsg = "Failed to send email. Please try again later."

type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type Service struct {
	sender mailer.Sender
	log    *zap.Logger
}

func NewService(sender mailer.Sender, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{sender: sender, log: l}
}

// Relay 转发联系表单；发送失败的细节只进日志
func (s *Service) Relay(ctx context.Context, in Input) error {
	err := s.sender.Send(ctx, mailer.Message{
		ReplyTo: in.Email,
		Subject: "Contact Form Message from " + in.Name,
		Body:    in.Message,
	})
	if err != nil {
		s.log.Error("contact email failed", zap.String("reply_to", in.Email), zap.Error(err))
		return domain.External(failedMsg, err)
	}
	s.log.Info("contact email sent", zap.String("reply_to", in.Email))
	return nil
}
