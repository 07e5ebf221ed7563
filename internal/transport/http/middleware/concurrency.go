package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "hifi-account-api/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数；等不到名额（客户端断开/超时）返回 503
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	if max <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp.Message("Server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
