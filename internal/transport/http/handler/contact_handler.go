package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hifi-account-api/internal/feature/contact"
	httpez "hifi-account-api/internal/transport/http/ez"
	resp "hifi-account-api/internal/transport/http/response"
)

type ContactHandler struct {
	svc *contact.Service
	log *zap.Logger
}

func NewContactHandler(svc *contact.Service, l *zap.Logger) *ContactHandler {
	return &ContactHandler{svc: svc, log: l}
}

func (h *ContactHandler) Priority() int { return 20 }

func (h *ContactHandler) MountAPI(api *gin.RouterGroup) {
	httpez.RegisterAction(httpez.New(api, h.log), httpez.Action[contact.Input, gin.H]{
		Method: http.MethodPost,
		Path:   "/contact",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *contact.Input) (gin.H, error) {
			if err := h.svc.Relay(c.Request.Context(), *in); err != nil {
				return nil, err
			}
			return resp.Message("Email sent successfully!"), nil
		},
	})
}
