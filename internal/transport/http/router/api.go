package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hifi-account-api/internal/core/server"
	"hifi-account-api/internal/feature/contact"
	"hifi-account-api/internal/feature/user"
	"hifi-account-api/internal/transport/http/handler"
	mdw "hifi-account-api/internal/transport/http/middleware"
	resp "hifi-account-api/internal/transport/http/response"
)

type Deps struct {
	Users   *user.Service
	Contact *contact.Service

	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxInflight    int64
	MaxBodyBytes   int64
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := server.NewRouter(l, server.Options{CORSOrigins: d.CORSOrigins})

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.ConcurrencyLimit(d.MaxInflight),
		mdw.MaxBodyBytes(d.MaxBodyBytes),
		mdw.Timeout(d.RequestTimeout),
		mdw.Metrics(),
		mdw.AccessLog(l, "/health", "/metrics"),
	)

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Hello, World!") })
	r.GET("/test-cors", func(c *gin.Context) { c.JSON(http.StatusOK, resp.Message("CORS is working!")) })

	// 运维
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())

	MountAPI(r.Group("/api"),
		handler.NewUserHandler(d.Users, l),
		handler.NewContactHandler(d.Contact, l),
	)
	return r
}
