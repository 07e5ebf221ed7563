package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const DefaultPath = "./configs/config.yaml"

// DefaultCORSOrigins 前端站点白名单
var DefaultCORSOrigins = []string{
	"https://hifi-horizon-mmf-1.onrender.com",
	"https://hifi-horizon-mmf-2.onrender.com",
	"http://localhost:5173",
	"https://hifi-mmf.netlify.app",
	"https://hifi-horizon-mmf.onrender.com",
}

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int   `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec   int   `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec    int   `mapstructure:"idle_timeout_sec"`
	RequestTimeoutSec int   `mapstructure:"request_timeout_sec"`
	MaxInflight       int64 `mapstructure:"max_inflight"`
	MaxBodyBytes      int64 `mapstructure:"max_body_bytes"`
}

type App struct {
	Name        string
	Env         string
	Render      bool     // 托管在 Render 上（只影响启动日志）
	CORSOrigins []string `mapstructure:"cors_origins"`
	HTTP        HTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAgeDays int `mapstructure:"max_age_days"`
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

type SQL struct {
	Driver             string
	DSN                string
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	LogLevel           string `mapstructure:"log_level"`
	Document           string
	AutoMigrate        bool `mapstructure:"auto_migrate"`
}

type Store struct {
	Driver string // file | memory | redis | sql
	Path   string
	Redis  Redis
	SQL    SQL
}

type Mail struct {
	Host       string
	Port       int
	Username   string
	Password   string
	To         string
	TimeoutSec int `mapstructure:"timeout_sec"`
}

type Bcrypt struct {
	Cost int
}

type Config struct {
	App    App
	Log    Log
	Store  Store
	Mail   Mail
	Bcrypt Bcrypt
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "hifi-account-api")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.render", false)
	v.SetDefault("app.cors_origins", DefaultCORSOrigins)
	v.SetDefault("app.http.host", "")
	v.SetDefault("app.http.port", 3000)
	v.SetDefault("app.http.read_timeout_sec", 10)
	v.SetDefault("app.http.write_timeout_sec", 30)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.http.request_timeout_sec", 10)
	v.SetDefault("app.http.max_inflight", 300)
	v.SetDefault("app.http.max_body_bytes", 1<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "users.json")
	v.SetDefault("store.redis.addr", "127.0.0.1:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.key", "users")
	v.SetDefault("store.sql.driver", "postgres")
	v.SetDefault("store.sql.dsn", "")
	v.SetDefault("store.sql.max_open_conns", 10)
	v.SetDefault("store.sql.max_idle_conns", 5)
	v.SetDefault("store.sql.conn_max_lifetime_min", 30)
	v.SetDefault("store.sql.log_level", "warn")
	v.SetDefault("store.sql.document", "users")
	v.SetDefault("store.sql.auto_migrate", true)

	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.to", "")
	v.SetDefault("mail.timeout_sec", 30)

	v.SetDefault("bcrypt.cost", 10)
}

// 沿用部署环境里已有的变量名（不带前缀）
var legacyEnv = map[string]string{
	"app.http.port": "PORT",
	"mail.username": "EMAIL_USER",
	"mail.password": "EMAIL_PASS",
	"app.render":    "RENDER",
}

// Load path 为空时读 CONFIG_PATH，再退到 DefaultPath；默认文件不存在不算错
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		path = os.Getenv("CONFIG_PATH")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, env, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.App.HTTP.Port <= 0 || c.App.HTTP.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.App.HTTP.Port)
	}
	for _, o := range c.App.CORSOrigins {
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("invalid cors origin %q", o)
		}
	}
	switch c.Store.Driver {
	case "file", "memory", "redis", "sql":
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	return nil
}
