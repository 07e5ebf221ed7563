package repo

import (
	"fmt"

	"gorm.io/gorm"

	"hifi-account-api/internal/domain"
)

type Options struct {
	Driver string // file | memory | redis | sql
	Path   string // file

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string

	// sql 后端：连接由调用方打开
	DB          *gorm.DB
	Document    string
	AutoMigrate bool
}

// Open 按 Driver 构造存储，返回的 closer 释放底层连接
func Open(o Options) (domain.UserStore, func(), error) {
	noop := func() {}
	var s domain.UserStore
	closer := noop

	switch o.Driver {
	case "", "file":
		fsStore := NewFileStore(o.Path)
		if err := fsStore.Init(); err != nil {
			return nil, noop, err
		}
		s = fsStore
	case "memory":
		s = NewMemoryStore()
	case "redis":
		rdb := NewRedisClient(o.RedisAddr, o.RedisPassword, o.RedisDB)
		s = NewRedisStore(rdb, o.RedisKey)
		closer = func() { _ = rdb.Close() }
	case "sql":
		if o.DB == nil {
			return nil, noop, fmt.Errorf("store driver sql: no database handle")
		}
		r := NewDocumentRepo(o.DB, o.Document)
		if o.AutoMigrate {
			if err := r.Migrate(); err != nil {
				return nil, noop, fmt.Errorf("automigrate documents: %w", err)
			}
		}
		s = r
		closer = func() {
			if sqlDB, err := o.DB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	default:
		return nil, noop, fmt.Errorf("unsupported store driver %q", o.Driver)
	}

	backend := o.Driver
	if backend == "" {
		backend = "file"
	}
	return Instrument(s, backend), closer, nil
}
