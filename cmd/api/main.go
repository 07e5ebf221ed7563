package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hifi-account-api/internal/core/config"
	"hifi-account-api/internal/core/database"
	"hifi-account-api/internal/core/logger"
	"hifi-account-api/internal/core/mailer"
	"hifi-account-api/internal/core/server"
	"hifi-account-api/internal/domain"
	"hifi-account-api/internal/feature/contact"
	"hifi-account-api/internal/feature/user"
	"hifi-account-api/internal/repo"
	"hifi-account-api/internal/transport/http/router"
	"hifi-account-api/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		// logger 还没起来
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log, cleanup := newLogger(cfg)
	defer cleanup()
	undoStd := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undoStd()

	if cfg.App.Env == "prod" || cfg.Log.JSON {
		gin.SetMode(gin.ReleaseMode)
	}

	// 存储（失败直接 Fatal）
	store, closeStore := mustOpenStore(cfg, log)
	defer closeStore()
	log.Info("user store ready", zap.String("driver", cfg.Store.Driver))

	smtp, err := mailer.NewSMTP(mailer.Opts{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		To:       cfg.Mail.To,
		Timeout:  time.Duration(cfg.Mail.TimeoutSec) * time.Second,
	}, log)
	if err != nil {
		log.Fatal("mailer init", zap.Error(err))
	}
	if cfg.Mail.Username == "" {
		log.Warn("EMAIL_USER not set, /api/contact will fail")
	}

	r := router.NewAPIEngine(log, router.Deps{
		Users:          user.NewService(store, utils.PasswordHasher{Cost: cfg.Bcrypt.Cost}, log),
		Contact:        contact.NewService(smtp, log),
		CORSOrigins:    cfg.App.CORSOrigins,
		RequestTimeout: time.Duration(cfg.App.HTTP.RequestTimeoutSec) * time.Second,
		MaxInflight:    cfg.App.HTTP.MaxInflight,
		MaxBodyBytes:   cfg.App.HTTP.MaxBodyBytes,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
		logger.ToStdLogger(log, zapcore.WarnLevel),
	)

	baseURL := server.BaseURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("server starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)
	if cfg.App.Render {
		log.Info("running on Render, public URL is provided by the Render dashboard")
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File.Enable {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Enable:     true,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		})
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func mustOpenStore(cfg *config.Config, l *zap.Logger) (domain.UserStore, func()) {
	o := repo.Options{
		Driver:        cfg.Store.Driver,
		Path:          cfg.Store.Path,
		RedisAddr:     cfg.Store.Redis.Addr,
		RedisPassword: cfg.Store.Redis.Password,
		RedisDB:       cfg.Store.Redis.DB,
		RedisKey:      cfg.Store.Redis.Key,
		Document:      cfg.Store.SQL.Document,
		AutoMigrate:   cfg.Store.SQL.AutoMigrate,
	}
	if cfg.Store.Driver == "sql" {
		db, err := database.Open(database.Opts{
			Driver:             cfg.Store.SQL.Driver,
			DSN:                cfg.Store.SQL.DSN,
			MaxOpenConns:       cfg.Store.SQL.MaxOpenConns,
			MaxIdleConns:       cfg.Store.SQL.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.Store.SQL.ConnMaxLifetimeMin,
			LogLevel:           cfg.Store.SQL.LogLevel,
			Logger:             l,
		})
		if err != nil {
			l.Fatal("db open", zap.Error(err))
		}
		o.DB = db
	}
	s, closer, err := repo.Open(o)
	if err != nil {
		l.Fatal("store open", zap.Error(err))
	}
	return s, closer
}
