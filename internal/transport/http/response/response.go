package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hifi-account-api/internal/domain"
)

// Message {"message": msg}
func Message(msg string) gin.H { return gin.H{"message": msg} }

// ErrorBody {"error": msg}，用于外部服务失败
func ErrorBody(msg string) gin.H { return gin.H{"error": msg} }

// Fail 把错误写成响应；Internal 只返回通用文案，细节进日志
func Fail(c *gin.Context, l *zap.Logger, err error) {
	kind := domain.KindOf(err)
	status := KindStatus[kind]

	var de *domain.Error
	errors.As(err, &de)

	switch kind {
	case domain.KindInternal:
		l.Error("request failed",
			zap.String("rid", c.GetString("X-Request-ID")),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, Message(MsgInternal))
	case domain.KindExternal:
		c.AbortWithStatusJSON(status, ErrorBody(de.Msg))
	default:
		c.AbortWithStatusJSON(status, Message(de.Msg))
	}
}
